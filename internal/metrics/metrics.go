package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
type AppMetrics struct {
	UDPDatagrams     prometheus.Counter
	UDPBytesReceived prometheus.Counter
	UDPDropped       prometheus.Counter     // 限流丢弃
	TelegramTotal    *prometheus.CounterVec // labels: kind=data|debug|unrecognized
	ReplyTotal       *prometheus.CounterVec // labels: kind=ack|change
	SendErrors       prometheus.Counter
	OnlineGauge      prometheus.Gauge
	ReportedCurrent  *prometheus.GaugeVec // labels: device
	ReportedVoltage  *prometheus.GaugeVec
	ReportedTemp     *prometheus.GaugeVec
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		UDPDatagrams: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_datagrams_received_total",
			Help: "Total datagrams received over UDP.",
		}),
		UDPBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_bytes_received_total",
			Help: "Total bytes received over UDP.",
		}),
		UDPDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_datagrams_dropped_total",
			Help: "Datagrams dropped by the inbound rate limiter.",
		}),
		TelegramTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "juice_telegram_total",
			Help: "Parsed telegrams by payload kind.",
		}, []string{"kind"}),
		ReplyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "juice_reply_total",
			Help: "Outbound telegrams by kind.",
		}, []string{"kind"}),
		SendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "juice_send_errors_total",
			Help: "Failed outbound telegram writes.",
		}),
		OnlineGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "session_online_count",
			Help: "Current number of online devices.",
		}),
		ReportedCurrent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "juice_reported_current_amps",
			Help: "Charging current last reported by a device.",
		}, []string{"device"}),
		ReportedVoltage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "juice_reported_voltage_volts",
			Help: "Line voltage last reported by a device.",
		}, []string{"device"}),
		ReportedTemp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "juice_reported_temperature",
			Help: "Temperature last reported by a device, as scaled by the field table.",
		}, []string{"device"}),
	}
	reg.MustRegister(
		m.UDPDatagrams, m.UDPBytesReceived, m.UDPDropped,
		m.TelegramTotal, m.ReplyTotal, m.SendErrors,
		m.OnlineGauge, m.ReportedCurrent, m.ReportedVoltage, m.ReportedTemp,
	)
	return m
}
