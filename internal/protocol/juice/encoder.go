package juice

import (
	"fmt"
	"strings"
	"time"
)

// checksumToken 出站报文的校验段。算法未逆向；设备在下行方向
// 不强校验该段，按观测报文固定填充。
const checksumToken = "5N5"

// ServerMessage 出站应答报文的结构化字段。
// 每条出站报文构造一个新实例；payload 缓存已构建的线上文本，
// 清掉缓存后下一次 Build 才会按最新字段重建。
type ServerMessage struct {
	Counter         int
	Command         int
	OfflineAmperage int
	InstantAmperage int
	Version         *string

	payload string
}

// Build 渲染线上文本并缓存。
// 布局按下行抓包归纳：
// CMD<星期><时分>A<即时电流>M<离线电流>C<command>S<计数器>[v<版本>]!<校验>$
func (m *ServerMessage) Build(now time.Time) string {
	if m.payload != "" {
		return m.payload
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CMD%d%02d%02d", int(now.Weekday()), now.Hour(), now.Minute())
	fmt.Fprintf(&b, "A%02d", m.InstantAmperage)
	fmt.Fprintf(&b, "M%02d", m.OfflineAmperage)
	fmt.Fprintf(&b, "C%03d", m.Command)
	fmt.Fprintf(&b, "S%03d", m.Counter)
	if m.Version != nil {
		fmt.Fprintf(&b, "v%s", *m.Version)
	}
	b.WriteString("!")
	b.WriteString(checksumToken)
	b.WriteString("$")
	m.payload = b.String()
	return m.payload
}

// ClearPayload 丢弃缓存的线上文本，强制下一次 Build 按当前字段重建
func (m *ServerMessage) ClearPayload() { m.payload = "" }
