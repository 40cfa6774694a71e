package juice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableOverlay 字段表的 YAML 扩展文件结构。
// 用于在不改代码的情况下给新固件出现的字段码命名或修正缩放。
type tableOverlay struct {
	Fields map[string]overlayEntry `yaml:"fields"`
}

type overlayEntry struct {
	Name string   `yaml:"name"`
	Kind string   `yaml:"kind"` // text | int | decimal
	Mult float64  `yaml:"mult"`
	Ofs  float64  `yaml:"ofs"`
	Enum []string `yaml:"enum"`
}

// LoadTable 在默认字段表的基础上合并 YAML 扩展并返回新表。
// 合并只发生在启动期，返回的表之后不再修改。
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field table: %w", err)
	}
	var ov tableOverlay
	if err := yaml.Unmarshal(b, &ov); err != nil {
		return nil, fmt.Errorf("unmarshal field table: %w", err)
	}

	t := DefaultTable()
	for code, e := range ov.Fields {
		if len(code) != 1 {
			return nil, fmt.Errorf("field table: code %q must be a single character", code)
		}
		kind, err := parseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("field table: code %q: %w", code, err)
		}
		name := e.Name
		if name == "" {
			name = code
		}
		t.specs[code[0]] = FieldSpec{Name: name, Kind: kind, Mult: e.Mult, Ofs: e.Ofs, Enum: e.Enum}
	}
	return t, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "", "int":
		return KindInt, nil
	case "text":
		return KindText, nil
	case "decimal":
		return KindDecimal, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
