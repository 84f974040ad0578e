package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"drtkpi/internal/kpi"
	"drtkpi/internal/shared/testutil"
)

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	f, err := excelize.OpenReader(fh)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXLSXSink_Write(t *testing.T) {
	for _, name := range []string{"output.xls", "output.xlsx"} {
		t.Run(name, func(t *testing.T) {
			r := testReport(t)
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, NewXLSXSink("", nil).Write(context.Background(), r, path))

			f := openWorkbook(t, path)
			assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

			rows, err := f.GetRows(DefaultSheetName, excelize.Options{RawCellValue: true})
			require.NoError(t, err)
			require.Len(t, rows, r.Len(), "no header row")

			for i, e := range r.Entries() {
				require.Len(t, rows[i], 2)
				assert.Equal(t, e.Key, rows[i][0])
				got, err := strconv.ParseFloat(rows[i][1], 64)
				require.NoError(t, err)
				assert.InDelta(t, e.Value, got, 1e-12, e.Key)
			}
		})
	}
}

func TestXLSXSink_WarnsOnLegacyExtension(t *testing.T) {
	tests := []struct {
		name     string
		wantWarn bool
	}{
		{name: "output.xls", wantWarn: true},
		{name: "OUTPUT.XLS", wantWarn: true},
		{name: "output.xlsx", wantWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, capture := testutil.NewTestLogger(t)
			path := filepath.Join(t.TempDir(), tt.name)

			require.NoError(t, NewXLSXSink("", logger).Write(context.Background(), testReport(t), path))

			_, warned := capture.Find(slog.LevelWarn, "Workbook is Office Open XML despite the .xls extension")
			assert.Equal(t, tt.wantWarn, warned)
		})
	}
}

func TestXLSXSink_CustomSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpis.xlsx")
	require.NoError(t, NewXLSXSink("kpi run 7", nil).Write(context.Background(), testReport(t), path))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"kpi run 7"}, f.GetSheetList())

	v, err := f.GetCellValue("kpi run 7", "A1")
	require.NoError(t, err)
	assert.Equal(t, kpi.KeyPersonInfoRaw, v)
}

func TestXLSXSink_InvalidSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpis.xlsx")
	err := NewXLSXSink("bad/name", nil).Write(context.Background(), testReport(t), path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial report")
}

func TestXLSXSink_Idempotent(t *testing.T) {
	dir := t.TempDir()
	sink := NewXLSXSink("", nil)
	paths := []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.xlsx")}

	var contents [][][]string
	for _, p := range paths {
		require.NoError(t, sink.Write(context.Background(), testReport(t), p))
		rows, err := openWorkbook(t, p).GetRows(DefaultSheetName, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		contents = append(contents, rows)
	}
	assert.Equal(t, contents[0], contents[1])
}
