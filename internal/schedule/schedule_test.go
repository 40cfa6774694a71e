package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 10, hour, min, 30, 0, time.Local)
}

func TestParse(t *testing.T) {
	w, err := Parse("9:00-17:30")
	require.NoError(t, err)
	assert.Equal(t, Window{9, 0, 17, 30}, w)
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "nine to five", "9-17", "0900-1730"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrBadSchedule, "input %q", s)
	}
}

func TestContains_SimpleWindow(t *testing.T) {
	w := Window{9, 0, 17, 59}
	assert.True(t, w.Contains(at(12, 30)))
	assert.False(t, w.Contains(at(8, 59)))
}

// 结束分钟为 0 的窗口在整点之外永远判为窗口外——时分独立比较
// 在结束侧同样生效，不做"修正"
func TestContains_EndMinuteQuirk(t *testing.T) {
	w := Window{9, 0, 17, 0}
	assert.False(t, w.Contains(at(12, 30)))
	assert.True(t, w.Contains(at(12, 0)))
}

func TestContains_WrappingWindow(t *testing.T) {
	w := Window{22, 0, 6, 0}
	assert.True(t, w.Contains(at(23, 30)))
	assert.False(t, w.Contains(at(12, 0)))
}

func TestContains_AllDayDefault(t *testing.T) {
	w := Default()
	assert.True(t, w.Contains(at(0, 0)))
	assert.True(t, w.Contains(at(12, 34)))
	assert.True(t, w.Contains(at(23, 59)))
}

// 时分独立比较的边界语义：起始 9:45 时 10:05 被判为窗口外
// （小时 10>=9 为真，分钟 5>=45 为假），与按时间先后的判断相反。
// 该行为是对参考服务的复刻，此处锁定它不被"修正"。
func TestContains_BoundaryQuirk(t *testing.T) {
	w := Window{9, 45, 17, 59}
	assert.False(t, w.Contains(at(10, 5)))
	assert.True(t, w.Contains(at(10, 50)))
}

func TestChangeValue(t *testing.T) {
	w := Window{9, 0, 17, 59}

	// 窗口内，上报 32 目标 40 → 换到 40
	v, ok := w.ChangeValue(32, 40, at(12, 30))
	require.True(t, ok)
	assert.Equal(t, 40, v)

	// 窗口外，上报 16 → 降为 0
	v, ok = w.ChangeValue(16, 40, at(20, 0))
	require.True(t, ok)
	assert.Equal(t, 0, v)

	// 窗口内且已是目标值 → 不变更
	_, ok = w.ChangeValue(40, 40, at(12, 30))
	assert.False(t, ok)

	// 窗口外且已为 0 → 不变更
	_, ok = w.ChangeValue(0, 40, at(20, 0))
	assert.False(t, ok)
}
