package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisManager Redis 版本的会话管理器。快照以 JSON 存储并带 TTL，
// 服务重启后设备在线状态不丢。
type RedisManager struct {
	client  *redis.Client
	timeout time.Duration
}

// Redis Key 设计：session:device:{deviceID} -> Snapshot JSON
const keyDevicePrefix = "session:device:"

// NewRedisManager 创建 Redis 会话管理器
func NewRedisManager(client *redis.Client, timeout time.Duration) *RedisManager {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &RedisManager{client: client, timeout: timeout}
}

// OnTelegram 记录设备最近一次上报。
// TTL 取超时的两倍，让刚离线的设备仍可查询到最后读数。
func (m *RedisManager) OnTelegram(snap Snapshot) {
	ctx := context.Background()
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	m.client.Set(ctx, keyDevicePrefix+snap.DeviceID, b, m.timeout*2)
}

// Snapshot 返回设备最近一次上报
func (m *RedisManager) Snapshot(deviceID string) (Snapshot, bool) {
	ctx := context.Background()
	b, err := m.client.Get(ctx, keyDevicePrefix+deviceID).Bytes()
	if err != nil {
		return Snapshot{}, false
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, false
	}
	return s, true
}

// Devices 返回所有已知设备的最近上报
func (m *RedisManager) Devices() []Snapshot {
	ctx := context.Background()
	var out []Snapshot
	iter := m.client.Scan(ctx, 0, keyDevicePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := m.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var s Snapshot
		if err := json.Unmarshal(b, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// IsOnline 判断设备是否在线
func (m *RedisManager) IsOnline(deviceID string, now time.Time) bool {
	s, ok := m.Snapshot(deviceID)
	if !ok {
		return false
	}
	return now.Sub(s.LastSeen) <= m.timeout
}

// OnlineCount 返回当前在线设备数量
func (m *RedisManager) OnlineCount(now time.Time) int {
	count := 0
	for _, s := range m.Devices() {
		if now.Sub(s.LastSeen) <= m.timeout {
			count++
		}
	}
	return count
}
