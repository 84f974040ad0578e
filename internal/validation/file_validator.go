package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "drtkpi/internal/errors"
)

// ReportExtensions lists the output file extensions a report can be written as
var ReportExtensions = []string{".xls", ".xlsx", ".csv"}

// FileValidator checks input and output paths before a run touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that the file for source exists, is a regular file and is readable
func (v *FileValidator) ValidateInputFile(source, path string) error {
	if path == "" {
		return apperrors.NewSourceLoadError(source, path, fmt.Errorf("no path given"))
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("source", source),
			slog.String("file", path))
		return apperrors.NewSourceLoadError(source, path, fmt.Errorf("file does not exist"))
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("source", source),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceLoadError(source, path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("source", source),
			slog.String("path", path))
		return apperrors.NewSourceLoadError(source, path, fmt.Errorf("is a directory, not a file"))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("source", source),
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceLoadError(source, path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("source", source),
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateReportPath checks the report extension and that the target is not a directory
func (v *FileValidator) ValidateReportPath(path string) error {
	if path == "" {
		return apperrors.NewValidationError("report output path is empty", nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isReportExtension(ext) {
		v.logger.Error("Unsupported report file extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(
			fmt.Sprintf("report %s has unsupported extension %q (want one of %s)", path, ext, strings.Join(ReportExtensions, ", ")), nil).
			WithContext("path", path)
	}

	if base := filepath.Base(path); strings.HasPrefix(base, "~$") {
		return apperrors.NewValidationError(fmt.Sprintf("report %s looks like a spreadsheet lock file", path), nil).
			WithContext("path", path)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("report %s is a directory", path), nil).
			WithContext("path", path)
	}

	return nil
}

// ValidateOutputDirectory ensures the directory exists or can be created and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func isReportExtension(ext string) bool {
	for _, e := range ReportExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
