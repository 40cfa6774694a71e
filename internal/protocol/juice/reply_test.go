package juice

import (
	"testing"
	"time"
)

func dataMsg(seq, def, avail int) *DeviceMessage {
	m := &DeviceMessage{Kind: PayloadData}
	m.Sequence = &seq
	m.CurrentDefault = &def
	m.CurrentAvailable = &avail
	return m
}

func TestComposeAck(t *testing.T) {
	seq := &Sequence{}
	m := ComposeAck(dataMsg(30, 40, 32), seq)
	if m.OfflineAmperage != 40 || m.InstantAmperage != 32 {
		t.Fatalf("amperage: %+v", m)
	}
	if m.Counter != 31 || m.Command != cmdSeq[31%4] {
		t.Fatalf("sequence: counter=%d command=%d", m.Counter, m.Command)
	}
}

func TestComposeAck_VersionCopied(t *testing.T) {
	d := dataMsg(1, 40, 40)
	v := "09u"
	d.Version = &v
	m := ComposeAck(d, &Sequence{})
	if m.Version == nil || *m.Version != "09u" {
		t.Fatalf("version: %v", m.Version)
	}
}

// 设备没报 sequence 时从零值推进
func TestComposeAck_NoSeed(t *testing.T) {
	d := &DeviceMessage{Kind: PayloadData}
	m := ComposeAck(d, &Sequence{})
	if m.Counter != 1 {
		t.Fatalf("counter: %d", m.Counter)
	}
	if m.OfflineAmperage != 0 || m.InstantAmperage != 0 {
		t.Fatalf("amperage: %+v", m)
	}
}

func TestComposeChange(t *testing.T) {
	seq := &Sequence{}
	m := ComposeAck(dataMsg(30, 40, 32), seq)
	ackText := m.Build(time.Date(2025, 1, 6, 13, 5, 0, 0, time.UTC))

	ComposeChange(m, seq, 0)
	if m.OfflineAmperage != 0 || m.InstantAmperage != 0 {
		t.Fatalf("amperage: %+v", m)
	}
	// 计数器不播种，从确认报文的 31 继续到 32
	if m.Counter != 32 || m.Command != cmdSeq[0] {
		t.Fatalf("sequence: counter=%d command=%d", m.Counter, m.Command)
	}
	changeText := m.Build(time.Date(2025, 1, 6, 13, 5, 0, 0, time.UTC))
	if changeText == ackText {
		t.Fatalf("payload cache not cleared")
	}
}
