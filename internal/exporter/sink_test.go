package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drtkpi/internal/errors"
)

func TestNewSink(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantFormat string
		wantErr    bool
	}{
		{name: "legacy xls", path: "output.xls", wantFormat: "xlsx"},
		{name: "xlsx", path: "out/report.xlsx", wantFormat: "xlsx"},
		{name: "csv upper case", path: "REPORT.CSV", wantFormat: "csv"},
		{name: "unknown", path: "report.ods", wantErr: true},
		{name: "no extension", path: "report", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := NewSink(tt.path, Options{})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, sink.Format())
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{input: 0, expected: "0"},
		{input: 3, expected: "3"},
		{input: -1, expected: "-1"},
		{input: 14.5, expected: "14.5"},
		{input: 1.0 / 3.0, expected: "0.3333333333333333"},
		{input: 0.000001, expected: "0.000001"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestReportRows(t *testing.T) {
	r := testReport(t)
	rows := reportRows(r)

	require.Len(t, rows, r.Len())
	for i, key := range r.Keys() {
		assert.Equal(t, key, rows[i][0])
		assert.Len(t, rows[i], 2)
	}
	assert.Equal(t, []string{"n_personinfo_raw", "3"}, rows[0])
	assert.Equal(t, []string{"n_trips_pooling", "-1"}, rows[8])
}
