package juice

import (
	"errors"
	"math"
	"strconv"
	"testing"
)

func TestDecode_CurrentScaled(t *testing.T) {
	f, err := DefaultTable().Decode('A', "010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "current" || f.Kind != KindDecimal {
		t.Fatalf("unexpected field: %+v", f)
	}
	if math.Abs(f.Num-1.0) > 1e-9 {
		t.Fatalf("current: got %v want 1.0", f.Num)
	}
}

func TestDecode_TemperatureMultThenOfs(t *testing.T) {
	// 先乘后加：250*1.8+32 = 482
	f, err := DefaultTable().Decode('T', "250")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f.Num-482.0) > 1e-9 {
		t.Fatalf("temperature: got %v want 482", f.Num)
	}
}

func TestDecode_StatusEnum(t *testing.T) {
	f, err := DefaultTable().Decode('S', "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Kind != KindText || f.Text != "plugged-in" || f.Int != 1 {
		t.Fatalf("unexpected field: %+v", f)
	}
}

func TestDecode_EnumOutOfRange(t *testing.T) {
	if _, err := DefaultTable().Decode('S', "9"); !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
}

func TestDecode_UnknownCode(t *testing.T) {
	if _, err := DefaultTable().Decode('Z', "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestDecode_BadNumeric(t *testing.T) {
	if _, err := DefaultTable().Decode('A', "x1"); !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
	if _, err := DefaultTable().Decode('L', "12.5"); !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
}

// 无偏移、无枚举的缩放字段：解码值除回系数应还原原始读数
func TestDecode_ScaleRoundTrip(t *testing.T) {
	cases := []struct {
		code byte
		raw  string
		mult float64
	}{
		{'A', "163", 0.1},
		{'V', "2405", 0.1},
		{'f', "6001", 0.01},
	}
	for _, c := range cases {
		f, err := DefaultTable().Decode(c.code, c.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", string(c.code), err)
		}
		spec, _ := DefaultTable().Lookup(c.code)
		if spec.Mult != c.mult {
			t.Fatalf("%q: mult %v want %v", string(c.code), spec.Mult, c.mult)
		}
		back := f.Num / c.mult
		if math.Abs(back-mustFloat(t, c.raw)) > 1e-6 {
			t.Fatalf("%q: round trip got %v from raw %s", string(c.code), back, c.raw)
		}
	}
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("bad raw %q: %v", s, err)
	}
	return v
}
