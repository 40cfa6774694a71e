package csvlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juicelab/juicebox-server/internal/protocol/juice"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_HeaderAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	w, err := New(path)
	require.NoError(t, err)

	m := juice.NewParser(nil, nil).Parse("123:A163,S2,V2405,T32,L500,C40!FF:")
	require.Equal(t, juice.PayloadData, m.Kind)

	at := time.Date(2025, 6, 10, 12, 30, 45, 0, time.UTC)
	require.NoError(t, w.Append(at, m))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"date", "status", "current", "voltage", "temperature", "lifetime"}, rows[0])
	assert.Equal(t, "2025-06-10 12:30:45", rows[1][0])
	assert.Equal(t, "charging", rows[1][1])
	assert.Equal(t, "16.3", rows[1][2])
	assert.Equal(t, "240.5", rows[1][3])
	assert.Equal(t, "89.6", rows[1][4])
	assert.Equal(t, "500", rows[1][5])
}

// 已存在的日志不重写表头，直接续行
func TestWriter_ExistingFileKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	w, err := New(path)
	require.NoError(t, err)

	m := juice.NewParser(nil, nil).Parse("1:S0,C00!AA:")
	require.NoError(t, w.Append(time.Now(), m))

	w2, err := New(path)
	require.NoError(t, err)
	require.NoError(t, w2.Append(time.Now(), m))

	rows := readAll(t, path)
	assert.Len(t, rows, 3)
}

// 缺失读数留空列
func TestWriter_MissingReadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	w, err := New(path)
	require.NoError(t, err)

	m := juice.NewParser(nil, nil).Parse("9:S1,C16!AA:")
	require.NoError(t, w.Append(time.Now(), m))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "plugged-in", rows[1][1])
	assert.Equal(t, "0", rows[1][2]) // A 缺失电流按 0
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "", rows[1][4])
	assert.Equal(t, "", rows[1][5])
}
