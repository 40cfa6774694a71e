package health

import (
	"context"
	"time"

	"github.com/juicelab/juicebox-server/internal/udpserver"
)

// UDPChecker UDP 网关健康检查器：确认 socket 已绑定，并观察限流丢包占比
type UDPChecker struct {
	server *udpserver.Server
}

// NewUDPChecker 创建 UDP 网关健康检查器
func NewUDPChecker(server *udpserver.Server) *UDPChecker {
	return &UDPChecker{server: server}
}

// Name 返回检查器名称
func (c *UDPChecker) Name() string {
	return "udp"
}

// Check 执行健康检查
func (c *UDPChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	addr := c.server.LocalAddr()
	if addr == nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "socket not bound",
			Latency: time.Since(start),
		}
	}

	status := StatusHealthy
	message := "ok"
	details := map[string]interface{}{
		"local_addr": addr.String(),
	}

	if limiter := c.server.Limiter(); limiter != nil {
		stats := limiter.Stats()
		details["allowed_total"] = stats.AllowedTotal
		details["rejected_total"] = stats.RejectedTotal
		// 丢弃比放行还多，说明入站流量远超额度
		if stats.RejectedTotal > stats.AllowedTotal && stats.AllowedTotal > 0 {
			status = StatusDegraded
			message = "rate limiter shedding most inbound datagrams"
		}
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: details,
		Latency: time.Since(start),
	}
}
