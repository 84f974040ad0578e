package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		records  [][]string
		expected string
	}{
		{
			name:     "plain records",
			records:  [][]string{{"a", "1"}, {"b", "2.5"}},
			expected: "a,1\nb,2.5\n",
		},
		{
			name:     "quoted fields",
			records:  [][]string{{"x,y", `say "hi"`}},
			expected: "\"x,y\",\"say \"\"hi\"\"\"\n",
		},
		{
			name:     "no records",
			records:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter().WriteCSV(&buf, tt.records))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestCSVSink_Write(t *testing.T) {
	r := testReport(t)
	path := filepath.Join(t.TempDir(), "reports", "output.csv")

	require.NoError(t, NewCSVSink(nil).Write(context.Background(), r, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, reportRows(r), records, "no header row, one row per KPI")
}

func TestCSVSink_Idempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	sink := NewCSVSink(nil)

	require.NoError(t, sink.Write(context.Background(), testReport(t), first))
	require.NoError(t, sink.Write(context.Background(), testReport(t), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), "n_personinfo_raw,3\n"))
}

func TestCSVSink_UnwritableTarget(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := NewCSVSink(nil).Write(context.Background(), testReport(t), filepath.Join(blocker, "output.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE")
}
