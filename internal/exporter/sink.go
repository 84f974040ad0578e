package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/kpi"
)

// DefaultSheetName is the worksheet the report is written to.
const DefaultSheetName = "output"

// ReportSink persists a finished report.
type ReportSink interface {
	Write(ctx context.Context, report *kpi.Report, path string) error
	Format() string
}

// Options configures sink construction.
type Options struct {
	SheetName string
	Logger    *slog.Logger
}

// NewSink returns the sink matching the extension of path.
func NewSink(path string, opts Options) (ReportSink, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xls", ".xlsx":
		return NewXLSXSink(opts.SheetName, opts.Logger), nil
	case ".csv":
		return NewCSVSink(opts.Logger), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("no report sink for extension %q", ext), nil).
			WithContext("path", path)
	}
}

// reportRows returns the two-column rows of r in report order.
func reportRows(r *kpi.Report) [][]string {
	entries := r.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, formatFloat(e.Value)}
	}
	return rows
}
