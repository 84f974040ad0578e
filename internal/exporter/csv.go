package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/files"
	"drtkpi/internal/kpi"
)

// CSVWriter provides CSV encoding of row sets
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteCSV writes records to out
func (w *CSVWriter) WriteCSV(out io.Writer, records [][]string) error {
	writer := csv.NewWriter(out)

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVSink writes a report as headerless key,value rows
type CSVSink struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewCSVSink creates a CSV report sink
func NewCSVSink(logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{writer: NewCSVWriter(), logger: logger}
}

// Format implements ReportSink
func (s *CSVSink) Format() string { return "csv" }

// Write implements ReportSink
func (s *CSVSink) Write(ctx context.Context, report *kpi.Report, path string) error {
	rows := reportRows(report)

	s.logger.InfoContext(ctx, "Writing CSV report",
		slog.String("file_path", path),
		slog.Int("record_count", len(rows)))

	err := files.WriteAtomic(path, func(out io.Writer) error {
		return s.writer.WriteCSV(out, rows)
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write report %s", path), err).
			WithContext("path", path)
	}
	return nil
}
