package juice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// PayloadKind 报文类别
type PayloadKind int

const (
	PayloadUnrecognized PayloadKind = iota
	PayloadData
	PayloadDebug
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadData:
		return "data"
	case PayloadDebug:
		return "debug"
	}
	return "unrecognized"
}

// DeviceMessage 一条上行报文的解码结果。
// 已知字段全部显式声明为可选成员；字段表里有名字但这里未声明的读数
// 落到 Extra。每条报文解出一个新实例，解出后不再修改。
type DeviceMessage struct {
	DeviceID string
	Payload  string // 原始报文文本
	Checksum string // 原样携带，不做校验
	Kind     PayloadKind

	Version          *string
	Current          float64 // data 报文未携带 A 字段时保持 0
	LoopCounter      *int
	Voltage          *float64
	Lifetime         *int
	Status           *string
	Temperature      *float64
	CurrentDefault   *int
	CurrentRating    *int
	ReportTime       *int
	Interval         *int
	Frequency        *float64
	Sequence         *int
	CurrentAvailable *int

	Extra map[string]Field

	DebugLevel string
	DebugText  string
}

// Summary 日志用的一行摘要
func (m *DeviceMessage) Summary() string {
	switch m.Kind {
	case PayloadData:
		status := ""
		if m.Status != nil {
			status = *m.Status
		}
		avail := 0
		if m.CurrentAvailable != nil {
			avail = *m.CurrentAvailable
		}
		return fmt.Sprintf("status:%s current:%.1f available:%d", status, m.Current, avail)
	case PayloadDebug:
		return fmt.Sprintf("DBG[%s] %s", m.DebugLevel, m.DebugText)
	}
	return "unrecognized telegram"
}

// 两套互斥文法，按序尝试：
// 数据报文  <deviceId>:<code><value>[,<code><value>...]!<checksum>:
// 调试报文  <deviceId>:DBG,<level>:<text>:
var (
	dataPat  = regexp.MustCompile(`^(\d+):([-\w,]+)!(\w+):`)
	debugPat = regexp.MustCompile(`^(\d+):DBG,(\w+):(.+?):$`)
)

// Parser 上行报文解析器
type Parser struct {
	table *Table
	log   *zap.Logger
}

// NewParser 创建解析器；table 为 nil 时使用默认字段表
func NewParser(table *Table, log *zap.Logger) *Parser {
	if table == nil {
		table = DefaultTable()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{table: table, log: log}
}

// Parse 解析一条报文。任何解析问题都不会返回错误：
// 两套文法都不匹配、或某个字段值无法按声明类型转换时，
// 结果的 Kind 为 PayloadUnrecognized，调用方直接丢弃即可。
func (p *Parser) Parse(line string) *DeviceMessage {
	m := &DeviceMessage{Payload: line, Kind: PayloadUnrecognized, Extra: make(map[string]Field)}

	if mat := dataPat.FindStringSubmatch(line); mat != nil {
		m.DeviceID = mat[1]
		m.Checksum = mat[3]
		for _, part := range strings.Split(mat[2], ",") {
			if part == "" {
				continue
			}
			fld, err := p.table.Decode(part[0], part[1:])
			if err != nil {
				if errors.Is(err, ErrUnknownField) {
					p.log.Warn("unknown field code", zap.String("code", part[:1]), zap.String("device", m.DeviceID))
					continue
				}
				// 字段值坏掉的报文整条按畸形处理，不让单条报文影响服务循环
				p.log.Warn("malformed telegram", zap.String("device", m.DeviceID), zap.Error(err))
				m.Kind = PayloadUnrecognized
				return m
			}
			m.assign(fld)
		}
		m.Kind = PayloadData
		return m
	}

	if mat := debugPat.FindStringSubmatch(line); mat != nil {
		m.DeviceID = mat[1]
		m.DebugLevel = mat[2]
		m.DebugText = mat[3]
		m.Kind = PayloadDebug
		return m
	}

	return m
}

// assign 把解码后的字段落到显式成员；没有对应成员的进 Extra
func (m *DeviceMessage) assign(f Field) {
	switch f.Name {
	case "version":
		v := f.Text
		m.Version = &v
	case "current":
		m.Current = f.Num
	case "loop_counter":
		v := f.Int
		m.LoopCounter = &v
	case "voltage":
		v := f.Num
		m.Voltage = &v
	case "lifetime":
		v := f.Int
		m.Lifetime = &v
	case "status":
		v := f.Text
		m.Status = &v
	case "temperature":
		v := f.Num
		m.Temperature = &v
	case "current_default":
		v := f.Int
		m.CurrentDefault = &v
	case "current_rating":
		v := f.Int
		m.CurrentRating = &v
	case "report_time":
		v := f.Int
		m.ReportTime = &v
	case "interval":
		v := f.Int
		m.Interval = &v
	case "frequency":
		v := f.Num
		m.Frequency = &v
	case "sequence":
		v := f.Int
		m.Sequence = &v
	case "current_available":
		v := f.Int
		m.CurrentAvailable = &v
	default:
		m.Extra[f.Name] = f
	}
}
