package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/files"
	"drtkpi/internal/kpi"
)

// XLSXSink writes a report to a single-sheet workbook. The workbook is always
// Office Open XML, whatever the extension of the target path.
type XLSXSink struct {
	sheet  string
	logger *slog.Logger
}

// NewXLSXSink creates a workbook sink writing to sheet.
func NewXLSXSink(sheet string, logger *slog.Logger) *XLSXSink {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &XLSXSink{sheet: sheet, logger: logger}
}

// Format implements ReportSink.
func (s *XLSXSink) Format() string { return "xlsx" }

// Write implements ReportSink.
func (s *XLSXSink) Write(ctx context.Context, report *kpi.Report, path string) error {
	f, err := s.build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	s.logger.InfoContext(ctx, "Writing workbook report",
		slog.String("file_path", path),
		slog.String("sheet", s.sheet),
		slog.Int("record_count", report.Len()))

	if strings.EqualFold(filepath.Ext(path), ".xls") {
		s.logger.WarnContext(ctx, "Workbook is Office Open XML despite the .xls extension",
			slog.String("file_path", path))
	}

	// SaveAs rejects the legacy .xls extension, so the workbook is streamed instead.
	err = files.WriteAtomic(path, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write report %s", path), err).
			WithContext("path", path)
	}
	return nil
}

// build lays the report out as rows: name in column A, value in column B.
func (s *XLSXSink) build(report *kpi.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
		f.Close()
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid sheet name %q", s.sheet), err)
	}

	for i, e := range report.Entries() {
		row := i + 1
		keyCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			f.Close()
			return nil, err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStr(s.sheet, keyCell, e.Key); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write %s: %w", keyCell, err)
		}
		if err := f.SetCellFloat(s.sheet, valueCell, e.Value, -1, 64); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write %s: %w", valueCell, err)
		}
	}

	return f, nil
}
