package exchange

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/juicelab/juicebox-server/internal/metrics"
	"github.com/juicelab/juicebox-server/internal/protocol/juice"
	"github.com/juicelab/juicebox-server/internal/schedule"
	"github.com/juicelab/juicebox-server/internal/session"
)

// 节拍延时是对 Enel 云服务实测时序的复刻：确认前停 4 秒，
// 变更前再停 1 秒。不是退避，不允许自适应。
const (
	ackDelay    = 4 * time.Second
	changeDelay = 1 * time.Second
)

const storeTimeout = 5 * time.Second

// Responder 通过绑定的 UDP socket 把应答发回设备
type Responder interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
}

// TelemetrySink 每条被接受的数据报文落一行遥测（CSV）
type TelemetrySink interface {
	Append(at time.Time, m *juice.DeviceMessage) error
}

// TelemetryRepo 可选的数据库归档
type TelemetryRepo interface {
	RecordTelemetry(ctx context.Context, m *juice.DeviceMessage, at time.Time) error
}

// Machine 单条报文的交换状态机：
// 解析 → 非数据报文丢弃 → 落盘 → 4s 节拍 → 回确认 → 调度判定 → [1s 节拍 → 下发变更]。
// 严格串行，一次只处理一条报文；协议状态（计数器、解码字段）只活在
// 本次交换内，处理完即丢弃。
type Machine struct {
	parser  *juice.Parser
	window  schedule.Window
	target  int
	out     Responder
	log     *zap.Logger
	appm    *metrics.AppMetrics
	sink    TelemetrySink   // 可空
	repo    TelemetryRepo   // 可空
	sess    session.Manager // 可空

	now   func() time.Time
	sleep func(time.Duration)
}

// Options 可选协作方
type Options struct {
	Sink TelemetrySink
	Repo TelemetryRepo
	Sess session.Manager
}

// New 创建交换状态机
func New(parser *juice.Parser, window schedule.Window, target int, out Responder,
	log *zap.Logger, appm *metrics.AppMetrics, opts Options,
) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		parser: parser,
		window: window,
		target: target,
		out:    out,
		log:    log,
		appm:   appm,
		sink:   opts.Sink,
		repo:   opts.Repo,
		sess:   opts.Sess,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Handle 处理一条上行报文，完成一整个交换周期后返回。
// 任何错误都只影响本次交换，不中断服务循环。
func (m *Machine) Handle(raw []byte, addr net.Addr) {
	line := string(raw)
	log := m.log.With(zap.String("exchange", uuid.New().String()[:8]))

	dmsg := m.parser.Parse(line)
	if m.appm != nil {
		m.appm.TelegramTotal.WithLabelValues(dmsg.Kind.String()).Inc()
	}

	switch dmsg.Kind {
	case juice.PayloadDebug:
		// 调试报文只记日志，不确认也不落盘
		log.Info("device debug",
			zap.String("device", dmsg.DeviceID),
			zap.String("level", dmsg.DebugLevel),
			zap.String("text", dmsg.DebugText))
		return
	case juice.PayloadUnrecognized:
		log.Warn("unrecognized telegram dropped",
			zap.String("from", addr.String()),
			zap.String("payload", line))
		return
	}

	now := m.now()
	log.Info("telegram received",
		zap.String("device", dmsg.DeviceID),
		zap.String("from", addr.String()),
		zap.String("summary", dmsg.Summary()))

	m.observe(dmsg, now)
	m.persist(log, dmsg, now)

	// 参考云服务不会立即回包
	m.sleep(ackDelay)

	seq := &juice.Sequence{}
	smsg := juice.ComposeAck(dmsg, seq)
	m.send(log, smsg, addr, "ack")

	available := 0
	if dmsg.CurrentAvailable != nil {
		available = *dmsg.CurrentAvailable
	}
	value, ok := m.window.ChangeValue(available, m.target, m.now())
	if !ok {
		return
	}

	log.Info("changing current", zap.String("device", dmsg.DeviceID), zap.Int("value", value))
	m.sleep(changeDelay)
	juice.ComposeChange(smsg, seq, value)
	m.send(log, smsg, addr, "change")
}

// observe 刷新会话快照与读数指标
func (m *Machine) observe(d *juice.DeviceMessage, now time.Time) {
	if m.sess != nil {
		snap := session.Snapshot{DeviceID: d.DeviceID, Current: d.Current, LastSeen: now}
		if d.Status != nil {
			snap.Status = *d.Status
		}
		if d.CurrentAvailable != nil {
			snap.CurrentAvailable = *d.CurrentAvailable
		}
		if d.Voltage != nil {
			snap.Voltage = *d.Voltage
		}
		if d.Temperature != nil {
			snap.Temperature = *d.Temperature
		}
		if d.Lifetime != nil {
			snap.Lifetime = *d.Lifetime
		}
		m.sess.OnTelegram(snap)
	}
	if m.appm != nil {
		m.appm.ReportedCurrent.WithLabelValues(d.DeviceID).Set(d.Current)
		if d.Voltage != nil {
			m.appm.ReportedVoltage.WithLabelValues(d.DeviceID).Set(*d.Voltage)
		}
		if d.Temperature != nil {
			m.appm.ReportedTemp.WithLabelValues(d.DeviceID).Set(*d.Temperature)
		}
		if m.sess != nil {
			m.appm.OnlineGauge.Set(float64(m.sess.OnlineCount(now)))
		}
	}
}

// persist CSV 与数据库落盘；失败只告警，不影响应答
func (m *Machine) persist(log *zap.Logger, d *juice.DeviceMessage, now time.Time) {
	if m.sink != nil {
		if err := m.sink.Append(now, d); err != nil {
			log.Warn("telemetry log write failed", zap.Error(err))
		}
	}
	if m.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := m.repo.RecordTelemetry(ctx, d, now); err != nil {
			log.Warn("telemetry store failed", zap.Error(err))
		}
		cancel()
	}
}

func (m *Machine) send(log *zap.Logger, smsg *juice.ServerMessage, addr net.Addr, kind string) {
	text := smsg.Build(m.now())
	if _, err := m.out.WriteTo([]byte(text), addr); err != nil {
		if m.appm != nil {
			m.appm.SendErrors.Inc()
		}
		log.Error("reply send failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if m.appm != nil {
		m.appm.ReplyTotal.WithLabelValues(kind).Inc()
	}
	log.Info("reply sent",
		zap.String("kind", kind),
		zap.String("payload", text),
		zap.Int("instant_amperage", smsg.InstantAmperage))
}
