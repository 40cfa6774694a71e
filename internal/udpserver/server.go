package udpserver

import (
	"context"
	"net"
	"sync"

	cfgpkg "github.com/juicelab/juicebox-server/internal/config"
)

// Server UDP 网关：单 socket、单阻塞收包循环。
// 报文按到达顺序逐条同步处理，处理完一条才收下一条——这是对参考云服务
// 单线程行为的有意复刻，不做并发交换。
type Server struct {
	cfg     cfgpkg.UDPConfig
	conn    *net.UDPConn
	wg      sync.WaitGroup
	stopC   chan struct{}
	handler func(payload []byte, addr net.Addr)
	limiter *RateLimiter
	// 可选指标回调
	onRecvBytes func(n int)
	onDrop      func()
}

// New 创建 UDP 网关
func New(cfg cfgpkg.UDPConfig) *Server {
	s := &Server{cfg: cfg, stopC: make(chan struct{})}
	if cfg.Rate.PerSec > 0 {
		s.limiter = NewRateLimiter(cfg.Rate.PerSec, cfg.Rate.Burst)
	}
	return s
}

// SetHandler 设置上行报文处理回调（同步调用）
func (s *Server) SetHandler(h func(payload []byte, addr net.Addr)) { s.handler = h }

// SetMetricsCallbacks 设置指标回调
func (s *Server) SetMetricsCallbacks(onRecvBytes func(int), onDrop func()) {
	s.onRecvBytes, s.onDrop = onRecvBytes, onDrop
}

// Start 绑定端口并启动收包循环（非阻塞，内部 goroutine）
func (s *Server) Start() error {
	addr, err := net.ResolveUDPAddr("udp", s.cfg.Addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	s.conn = conn

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		maxPacket := s.cfg.MaxPacket
		if maxPacket <= 0 {
			maxPacket = 1024
		}
		buf := make([]byte, maxPacket)
		for {
			n, raddr, err := s.conn.ReadFromUDP(buf)
			if err != nil {
				select {
				case <-s.stopC:
					return
				default:
				}
				continue
			}
			if s.onRecvBytes != nil {
				s.onRecvBytes(n)
			}
			if s.limiter != nil && !s.limiter.Allow() {
				if s.onDrop != nil {
					s.onDrop()
				}
				continue
			}
			if s.handler != nil {
				pkt := make([]byte, n)
				copy(pkt, buf[:n])
				s.handler(pkt, raddr)
			}
		}
	}()
	return nil
}

// WriteTo 通过绑定的 socket 发送一条出站报文
func (s *Server) WriteTo(p []byte, addr net.Addr) (int, error) {
	return s.conn.WriteTo(p, addr)
}

// LocalAddr 返回实际绑定地址
func (s *Server) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Limiter 返回入站限流器（可能为 nil）
func (s *Server) Limiter() *RateLimiter { return s.limiter }

// Shutdown 关闭 socket 并等待收包循环退出
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopC)
	if s.conn != nil {
		_ = s.conn.Close()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
