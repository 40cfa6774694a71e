package health

import (
	"context"
	"sync"
)

// Aggregator 健康检查聚合器：并发执行各检查器并汇总状态。
// 检查器随依赖初始化逐个注册（Redis、数据库均为可选）。
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator 创建聚合器
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// AddChecker 添加检查器
func (a *Aggregator) AddChecker(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, c)
}

// CheckAll 并发执行所有健康检查
func (a *Aggregator) CheckAll(ctx context.Context) map[string]CheckResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	results := make(map[string]CheckResult, len(a.checkers))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range a.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			r := c.Check(ctx)
			resultsMu.Lock()
			results[c.Name()] = r
			resultsMu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// OverallStatus 计算总体健康状态：任一 Unhealthy 则整体 Unhealthy，
// 否则任一 Degraded 则整体 Degraded。
func (a *Aggregator) OverallStatus(ctx context.Context) Status {
	overall := StatusHealthy
	for _, r := range a.CheckAll(ctx) {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// Ready 就绪判定：Degraded 仍视为就绪，仅 Unhealthy 不就绪
func (a *Aggregator) Ready(ctx context.Context) bool {
	return a.OverallStatus(ctx) != StatusUnhealthy
}
