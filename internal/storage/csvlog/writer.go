package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/juicelab/juicebox-server/internal/protocol/juice"
)

// 列布局沿用原始日志格式，方便已有的表格/脚本直接继续用
var header = []string{"date", "status", "current", "voltage", "temperature", "lifetime"}

// Writer 追加式 CSV 遥测日志。文件不存在时先写表头；
// 每行单独打开追加写，进程被杀也最多丢当前一行。
type Writer struct {
	mu   sync.Mutex
	path string
}

// New 创建 CSV 日志写入器，必要时初始化表头
func New(path string) (*Writer, error) {
	w := &Writer{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create telemetry log: %w", err)
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write telemetry header: %w", err)
		}
		cw.Flush()
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Append 追加一行遥测。缺失的读数留空列。
func (w *Writer) Append(at time.Time, m *juice.DeviceMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open telemetry log: %w", err)
	}
	defer f.Close()

	row := []string{
		at.Format("2006-01-02 15:04:05"),
		strOrEmpty(m.Status),
		strconv.FormatFloat(m.Current, 'f', -1, 64),
		floatOrEmpty(m.Voltage),
		floatOrEmpty(m.Temperature),
		intOrEmpty(m.Lifetime),
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("append telemetry row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrEmpty(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
