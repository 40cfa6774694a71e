package session

import "time"

// Snapshot 设备最近一次数据报文的关键读数
type Snapshot struct {
	DeviceID         string    `json:"device_id"`
	Status           string    `json:"status"`
	Current          float64   `json:"current"`
	CurrentAvailable int       `json:"current_available"`
	Voltage          float64   `json:"voltage"`
	Temperature      float64   `json:"temperature"`
	Lifetime         int       `json:"lifetime"`
	LastSeen         time.Time `json:"last_seen"`
}

// Manager 设备在线状态与最近上报快照，支持内存和 Redis 两种实现
type Manager interface {
	// OnTelegram 记录一条被接受的数据报文
	OnTelegram(snap Snapshot)

	// Snapshot 返回设备最近一次上报
	Snapshot(deviceID string) (Snapshot, bool)

	// Devices 返回所有已知设备的最近上报
	Devices() []Snapshot

	// IsOnline 判断设备是否在线
	IsOnline(deviceID string, now time.Time) bool

	// OnlineCount 返回当前在线设备数量
	OnlineCount(now time.Time) int
}
