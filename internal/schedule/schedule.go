package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Window 每日充电时段，支持跨午夜（起始时大于结束时）。
// 启动时配置一次，之后只读。
type Window struct {
	StartHour, StartMin int
	EndHour, EndMin     int
}

// Default 全天窗口 00:00-23:59
func Default() Window {
	return Window{StartHour: 0, StartMin: 0, EndHour: 23, EndMin: 59}
}

var ErrBadSchedule = errors.New("invalid schedule")

var schedulePat = regexp.MustCompile(`(\d+):(\d+)-(\d+):(\d+)`)

// Parse 解析 hh:mm-hh:mm 形式的时段配置
func Parse(s string) (Window, error) {
	mat := schedulePat.FindStringSubmatch(s)
	if mat == nil {
		return Window{}, fmt.Errorf("%w: %q", ErrBadSchedule, s)
	}
	nums := make([]int, 4)
	for i, g := range mat[1:] {
		n, err := strconv.Atoi(g)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %q", ErrBadSchedule, s)
		}
		nums[i] = n
	}
	return Window{StartHour: nums[0], StartMin: nums[1], EndHour: nums[2], EndMin: nums[3]}, nil
}

// Contains 判断时刻是否落在窗口内，只看时和分，秒忽略。
// 时、分各自独立比较，不是真正的时间先后比较——这是对参考云服务行为的
// 一比一复刻；边界附近会出现与直觉相反的结果（起始 9:45 时，10:05 会因为
// 分钟 5<45 被判为"未到起始"），该语义有意保留。
// 起始时不小于结束时的窗口（含默认全天窗口）按跨午夜处理，取或。
func (w Window) Contains(now time.Time) bool {
	hour, min := now.Hour(), now.Minute()

	afterStart := hour >= w.StartHour && min >= w.StartMin
	beforeEnd := hour <= w.EndHour && min <= w.EndMin

	if w.StartHour < w.EndHour {
		return afterStart && beforeEnd
	}
	return afterStart || beforeEnd
}

// ChangeValue 决定是否需要下发电流变更：
// 窗口内且上报可用电流不等于目标值时换成目标值；
// 窗口外且可用电流大于 0 时降为 0（窗口外关断）；其余情况不变更。
func (w Window) ChangeValue(available, target int, now time.Time) (int, bool) {
	in := w.Contains(now)
	switch {
	case in && available != target:
		return target, true
	case !in && available > 0:
		return 0, true
	}
	return 0, false
}
