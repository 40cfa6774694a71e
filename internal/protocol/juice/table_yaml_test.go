package juice

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTable_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	content := `fields:
  Z:
    name: humidity
    kind: decimal
    mult: 0.1
  e:
    name: energy_session
    kind: int
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := tbl.Decode('Z', "123")
	if err != nil {
		t.Fatalf("decode Z: %v", err)
	}
	if f.Name != "humidity" || math.Abs(f.Num-12.3) > 1e-9 {
		t.Fatalf("unexpected: %+v", f)
	}

	// 覆盖已有条目
	f, err = tbl.Decode('e', "-5")
	if err != nil {
		t.Fatalf("decode e: %v", err)
	}
	if f.Name != "energy_session" || f.Int != -5 {
		t.Fatalf("unexpected: %+v", f)
	}

	// 未覆盖的默认条目仍在
	if _, err := tbl.Decode('A', "010"); err != nil {
		t.Fatalf("decode A: %v", err)
	}
}

func TestLoadTable_BadCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("fields:\n  ZZ:\n    name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(path); err == nil {
		t.Fatalf("expected error for multi-char code")
	}
}
