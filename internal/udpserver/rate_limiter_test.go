package udpserver

import "testing"

func TestRateLimiter(t *testing.T) {
	t.Run("突发额度内放行", func(t *testing.T) {
		l := NewRateLimiter(10, 5)
		for i := 0; i < 5; i++ {
			if !l.Allow() {
				t.Fatalf("第%d个报文应放行", i+1)
			}
		}
		if l.AllowedCount() != 5 {
			t.Fatalf("allowed: %d", l.AllowedCount())
		}
	})

	t.Run("超出突发额度丢弃", func(t *testing.T) {
		l := NewRateLimiter(1, 2)
		_ = l.Allow()
		_ = l.Allow()
		if l.Allow() {
			t.Fatal("第3个报文应被丢弃")
		}
		if l.RejectedCount() != 1 {
			t.Fatalf("rejected: %d", l.RejectedCount())
		}
	})

	t.Run("非法参数回退默认值", func(t *testing.T) {
		l := NewRateLimiter(0, 0)
		stats := l.Stats()
		if stats.RatePerSecond != 100 || stats.Burst != 200 {
			t.Fatalf("unexpected defaults: %+v", stats)
		}
	})
}
