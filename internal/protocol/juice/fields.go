package juice

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind 字段取值类型
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDecimal
)

// FieldSpec 单字符字段码的解码规则。
// Mult/Ofs 的应用顺序固定为先乘后加；Enum 以缩放前的整数值为下标。
type FieldSpec struct {
	Name string
	Kind Kind
	Mult float64
	Ofs  float64
	Enum []string
}

// Field 单个字段的解码结果，Kind 决定哪个成员有效。
// 枚举字段解出后 Kind 为 KindText，Int 保留原始整数读数。
type Field struct {
	Name string
	Kind Kind
	Text string
	Int  int
	Num  float64
}

var (
	ErrUnknownField = errors.New("unknown field code")
	ErrBadValue     = errors.New("bad field value")
)

// Table 字段码到解码规则的映射。进程启动时构造一次，之后只读。
type Table struct {
	specs map[byte]FieldSpec
}

// DefaultTable 返回实测 JuiceBox 数据报文使用的字段表。
// 缩放系数按抓包行为原样保留：A/V 为 0.1，f 为 0.01，
// T 为 raw*1.8+32（疑似十分之一摄氏度转华氏度，物理含义未验证，照搬观测值）。
// 单字母字段（F/e/r/b/B/p/E/P）的语义未知，仅按整数透传。
func DefaultTable() *Table {
	return &Table{specs: map[byte]FieldSpec{
		'v': {Name: "version", Kind: KindText},
		'A': {Name: "current", Kind: KindDecimal, Mult: 0.1},
		'u': {Name: "loop_counter", Kind: KindInt},
		'V': {Name: "voltage", Kind: KindDecimal, Mult: 0.1},
		'L': {Name: "lifetime", Kind: KindInt},
		'S': {Name: "status", Kind: KindInt,
			Enum: []string{"unplugged", "plugged-in", "charging", "not-defined", "error"}},
		'T': {Name: "temperature", Kind: KindDecimal, Mult: 1.8, Ofs: 32},
		'M': {Name: "current_default", Kind: KindInt},
		'm': {Name: "current_rating", Kind: KindInt},
		't': {Name: "report_time", Kind: KindInt},
		'i': {Name: "interval", Kind: KindInt},
		'f': {Name: "frequency", Kind: KindDecimal, Mult: 0.01},
		's': {Name: "sequence", Kind: KindInt},
		'F': {Name: "F", Kind: KindInt},
		'C': {Name: "current_available", Kind: KindInt},
		'e': {Name: "e", Kind: KindInt},
		'r': {Name: "r", Kind: KindInt},
		'b': {Name: "b", Kind: KindInt},
		'B': {Name: "B", Kind: KindInt},
		'p': {Name: "p", Kind: KindInt},
		'E': {Name: "E", Kind: KindInt},
		'P': {Name: "P", Kind: KindInt},
	}}
}

// Lookup 查询字段码对应的规则
func (t *Table) Lookup(code byte) (FieldSpec, bool) {
	spec, ok := t.specs[code]
	return spec, ok
}

// Decode 按字段表解码单个字段。
// 未知字段码返回 ErrUnknownField，调用方跳过该字段即可（兼容未公开的固件字段）；
// 数值转换失败或枚举下标越界返回 ErrBadValue，调用方应将整条报文按畸形处理。
func (t *Table) Decode(code byte, raw string) (Field, error) {
	spec, ok := t.specs[code]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, string(code))
	}

	f := Field{Name: spec.Name, Kind: spec.Kind}
	switch spec.Kind {
	case KindText:
		f.Text = raw
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Field{}, fmt.Errorf("%w: %s=%q", ErrBadValue, spec.Name, raw)
		}
		if len(spec.Enum) > 0 {
			if n < 0 || n >= len(spec.Enum) {
				return Field{}, fmt.Errorf("%w: %s enum index %d", ErrBadValue, spec.Name, n)
			}
			f.Kind = KindText
			f.Int = n
			f.Text = spec.Enum[n]
			break
		}
		if spec.Mult != 0 || spec.Ofs != 0 {
			// 整数字段带缩放时结果提升为小数
			f.Kind = KindDecimal
			f.Num = spec.scale(float64(n))
			break
		}
		f.Int = n
	case KindDecimal:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Field{}, fmt.Errorf("%w: %s=%q", ErrBadValue, spec.Name, raw)
		}
		f.Num = spec.scale(x)
	}
	return f, nil
}

// scale 先乘后加，顺序不能交换（T 字段的 raw*1.8+32 依赖该顺序）
func (s FieldSpec) scale(v float64) float64 {
	if s.Mult != 0 {
		v *= s.Mult
	}
	if s.Ofs != 0 {
		v += s.Ofs
	}
	return v
}
