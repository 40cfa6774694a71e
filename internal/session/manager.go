package session

import (
	"sort"
	"sync"
	"time"
)

// MemoryManager 会话管理最小实现：记录设备最近上报，判断是否在线
type MemoryManager struct {
	mu      sync.RWMutex
	last    map[string]Snapshot // deviceID -> last report
	timeout time.Duration
}

func New(timeout time.Duration) *MemoryManager {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &MemoryManager{last: make(map[string]Snapshot), timeout: timeout}
}

// OnTelegram 记录设备最近一次上报
func (m *MemoryManager) OnTelegram(snap Snapshot) {
	m.mu.Lock()
	m.last[snap.DeviceID] = snap
	m.mu.Unlock()
}

// Snapshot 返回设备最近一次上报
func (m *MemoryManager) Snapshot(deviceID string) (Snapshot, bool) {
	m.mu.RLock()
	s, ok := m.last[deviceID]
	m.mu.RUnlock()
	return s, ok
}

// Devices 返回所有已知设备的最近上报，按设备 ID 排序
func (m *MemoryManager) Devices() []Snapshot {
	m.mu.RLock()
	out := make([]Snapshot, 0, len(m.last))
	for _, s := range m.last {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// IsOnline 判断设备是否在线
func (m *MemoryManager) IsOnline(deviceID string, now time.Time) bool {
	m.mu.RLock()
	s, ok := m.last[deviceID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return now.Sub(s.LastSeen) <= m.timeout
}

// OnlineCount 返回当前在线设备数量
func (m *MemoryManager) OnlineCount(now time.Time) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.last {
		if now.Sub(s.LastSeen) <= m.timeout {
			count++
		}
	}
	return count
}
