package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"drtkpi/internal/config"
	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/exporter"
	"drtkpi/internal/extract"
	"drtkpi/internal/files"
	"drtkpi/internal/infrastructure"
	"drtkpi/internal/kpi"
	"drtkpi/internal/validation"
	"drtkpi/internal/xmltree"
)

// Stage names
const (
	StageValidate     = "validate"
	StageTripinfo     = "tripinfo"
	StageDispatchInfo = "dispatchinfo"
	StageDirectRoutes = "direct_routes"
	StageAggregate    = "aggregate"
	StageWrite        = "write"
)

// Options selects the inputs, filters and output of one run.
type Options struct {
	TripinfoPath string
	// DispatchInfoPath and DirectRoutesPath are optional; empty means not supplied.
	DispatchInfoPath string
	DirectRoutesPath string
	OutputPath       string
	VehicleType      string
	Window           extract.TimeWindow
	SheetName        string
}

// OptionsFromConfig returns run options holding the report defaults of cfg.
func OptionsFromConfig(cfg config.ReportConfig) Options {
	return Options{
		TripinfoPath:     cfg.Tripinfo,
		DispatchInfoPath: cfg.DispatchInfo,
		DirectRoutesPath: cfg.DirectRoutes,
		OutputPath:       cfg.Output,
		VehicleType:      cfg.VehicleType,
		SheetName:        cfg.SheetName,
	}
}

// Result is the outcome of a run. Manifest is always set; Report only on success.
type Result struct {
	Report   *kpi.Report
	Manifest *RunManifest
}

// Runner executes report runs.
type Runner struct {
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	validator *validation.FileValidator
	toolchain config.ToolchainConfig
}

// NewRunner creates a runner. A nil telemetry records nothing.
func NewRunner(logger *slog.Logger, telemetry *infrastructure.Telemetry, toolchain config.ToolchainConfig) *Runner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if telemetry == nil {
		telemetry = infrastructure.NoopTelemetry()
	}
	logger = infrastructure.WithComponent(logger, "pipeline")
	return &Runner{
		logger:    logger,
		telemetry: telemetry,
		validator: validation.NewFileValidator(logger),
		toolchain: toolchain,
	}
}

// Run produces the report for opts and writes it to opts.OutputPath.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	if opts.SheetName == "" {
		opts.SheetName = exporter.DefaultSheetName
	}

	manifest := NewRunManifest(runID, config.AppVersion, ManifestOptions{
		VehicleType:    opts.VehicleType,
		DepartEarliest: opts.Window.DepartEarliest,
		ArrivalLatest:  opts.Window.ArrivalLatest,
		SheetName:      opts.SheetName,
	}, ToolchainInfo{
		SumoHome: r.toolchain.SumoHome,
		ToolsDir: r.toolchain.ToolsDir(),
	})
	result := &Result{Manifest: manifest}

	ctx, span := r.telemetry.Tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("vtype", opts.VehicleType),
		attribute.String("output", opts.OutputPath),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "Starting report run",
		slog.String("tripinfo", opts.TripinfoPath),
		slog.String("dispatchinfo", opts.DispatchInfoPath),
		slog.String("direct_routes", opts.DirectRoutesPath),
		slog.String("output", opts.OutputPath),
		slog.String("vtype", opts.VehicleType))

	report, err := r.run(ctx, opts, manifest)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		r.telemetry.Metrics.RunFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error_type", string(apperrors.TypeOf(err)))))
		r.logger.ErrorContext(ctx, "Report run failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		return result, err
	}

	manifest.Complete(opts.OutputPath)
	result.Report = report

	r.logger.InfoContext(ctx, "Report run completed",
		slog.String("output", opts.OutputPath),
		slog.Int("kpis", report.Len()))
	return result, nil
}

func (r *Runner) run(ctx context.Context, opts Options, manifest *RunManifest) (*kpi.Report, error) {
	var sink exporter.ReportSink
	err := r.stage(ctx, manifest, StageValidate, func(ctx context.Context) (map[string]interface{}, error) {
		if opts.VehicleType == "" {
			return nil, apperrors.NewValidationError("vehicle type is empty", nil)
		}
		if err := r.validator.ValidateReportPath(opts.OutputPath); err != nil {
			return nil, err
		}
		if err := r.validator.ValidateOutputDirectory(filepath.Dir(opts.OutputPath)); err != nil {
			return nil, err
		}
		var err error
		sink, err = exporter.NewSink(opts.OutputPath, exporter.Options{SheetName: opts.SheetName, Logger: r.logger})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"format": sink.Format()}, nil
	})
	if err != nil {
		return nil, err
	}

	var trip *extract.TripinfoStats
	err = r.stage(ctx, manifest, StageTripinfo, func(ctx context.Context) (map[string]interface{}, error) {
		doc, err := r.load(ctx, manifest, extract.SourceTripinfo, opts.TripinfoPath, true)
		if err != nil {
			return nil, err
		}
		trip, err = extract.ExtractTripinfo(ctx, doc, extract.TripinfoOptions{
			VehicleType: opts.VehicleType,
			Window:      opts.Window,
		}, r.logger)
		if err != nil {
			return nil, err
		}
		r.recordTripinfo(ctx, manifest, trip)
		return map[string]interface{}{
			"persons_raw":      trip.Legs.RawPersons,
			"persons_accepted": trip.Legs.Accepted,
			"vehicles":         trip.Vehicles.Vehicles(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	dispatch := extract.Absent[extract.DispatchStats]()
	err = r.stage(ctx, manifest, StageDispatchInfo, func(ctx context.Context) (map[string]interface{}, error) {
		doc, err := r.load(ctx, manifest, extract.SourceDispatchInfo, opts.DispatchInfoPath, false)
		if err != nil || doc == nil {
			return nil, err
		}
		dispatch, err = extract.NewDispatchExtractor(r.logger).Extract(ctx, doc)
		if err != nil {
			return nil, err
		}
		entries := 0
		if d, ok := dispatch.Get(); ok {
			entries = d.Trips
		}
		r.recordOptional(ctx, manifest, extract.SourceDispatchInfo, entries, dispatch.IsPresent())
		return map[string]interface{}{"present": dispatch.IsPresent(), "entries": entries}, nil
	})
	if err != nil {
		return nil, err
	}

	direct := extract.Absent[extract.DirectRouteStats]()
	err = r.stage(ctx, manifest, StageDirectRoutes, func(ctx context.Context) (map[string]interface{}, error) {
		doc, err := r.load(ctx, manifest, extract.SourceDirectRoutes, opts.DirectRoutesPath, false)
		if err != nil || doc == nil {
			return nil, err
		}
		direct, err = extract.NewDirectRouteExtractor(r.logger).Extract(ctx, doc)
		if err != nil {
			return nil, err
		}
		entries := 0
		if d, ok := direct.Get(); ok {
			entries = d.Routes
		}
		r.recordOptional(ctx, manifest, extract.SourceDirectRoutes, entries, direct.IsPresent())
		return map[string]interface{}{"present": direct.IsPresent(), "entries": entries}, nil
	})
	if err != nil {
		return nil, err
	}

	var report *kpi.Report
	err = r.stage(ctx, manifest, StageAggregate, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		report, err = kpi.Aggregate(trip, dispatch, direct)
		if err != nil {
			return nil, err
		}
		for _, e := range report.Entries() {
			r.telemetry.Metrics.KPIValue.Record(ctx, e.Value, metric.WithAttributes(attribute.String("kpi", e.Key)))
		}
		return map[string]interface{}{"kpis": report.Len()}, nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, manifest, StageWrite, func(ctx context.Context) (map[string]interface{}, error) {
		if err := sink.Write(ctx, report, opts.OutputPath); err != nil {
			return nil, err
		}
		return map[string]interface{}{"path": filepath.Clean(opts.OutputPath), "format": sink.Format()}, nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// stage runs fn inside a span and records its outcome in the manifest and metrics.
func (r *Runner) stage(ctx context.Context, manifest *RunManifest, name string, fn func(context.Context) (map[string]interface{}, error)) error {
	ctx, span := r.telemetry.Tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	manifest.RecordStageStart(name)
	start := time.Now()

	metadata, err := fn(ctx)
	r.telemetry.Metrics.RecordStage(ctx, name, time.Since(start), err == nil)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		manifest.RecordStageFailure(name, err)
		return err
	}

	infrastructure.SetSpanAttributes(ctx, metadata)
	manifest.RecordStageCompletion(name, metadata)
	r.logger.DebugContext(ctx, "Stage completed",
		slog.String("stage", name),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// load validates, describes and parses the file for source. An optional
// source without a path yields a nil document and no error.
func (r *Runner) load(ctx context.Context, manifest *RunManifest, source, path string, required bool) (*xmltree.Document, error) {
	info := &InputInfo{Source: source, Required: required, Supplied: path != ""}
	manifest.SetInput(info)

	if path == "" && !required {
		r.logger.InfoContext(ctx, "Optional input not supplied",
			slog.String("source", source))
		return nil, nil
	}

	if err := r.validator.ValidateInputFile(source, path); err != nil {
		return nil, err
	}

	described, err := files.Describe(path)
	if err != nil {
		return nil, apperrors.NewSourceLoadError(source, path, err)
	}
	info.File = &described

	doc, err := xmltree.Load(source, path)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "Input loaded",
		slog.String("source", source),
		slog.String("path", path),
		slog.Int64("size", described.Size),
		slog.String("sha256", described.SHA256))
	return doc, nil
}

func (r *Runner) recordTripinfo(ctx context.Context, manifest *RunManifest, trip *extract.TripinfoStats) {
	if info, ok := manifest.Input(extract.SourceTripinfo); ok {
		info.Entries = trip.Legs.RawPersons + trip.Vehicles.Vehicles()
		info.Present = true
	}

	m := r.telemetry.Metrics
	m.RecordsRead.Add(ctx, int64(trip.Legs.RawPersons), metric.WithAttributes(
		attribute.String("source", extract.SourceTripinfo), attribute.String("record", "personinfo")))
	m.RecordsRead.Add(ctx, int64(trip.Vehicles.Vehicles()), metric.WithAttributes(
		attribute.String("source", extract.SourceTripinfo), attribute.String("record", "tripinfo")))
	m.RecordsFiltered.Add(ctx, int64(trip.Legs.FilteredWindow), metric.WithAttributes(attribute.String("reason", "time_window")))
	m.RecordsFiltered.Add(ctx, int64(trip.Legs.FilteredInvalid), metric.WithAttributes(attribute.String("reason", "invalid_ride")))
}

func (r *Runner) recordOptional(ctx context.Context, manifest *RunManifest, source string, entries int, present bool) {
	if info, ok := manifest.Input(source); ok {
		info.Entries = entries
		info.Present = present
	}
	r.telemetry.Metrics.RecordsRead.Add(ctx, int64(entries), metric.WithAttributes(attribute.String("source", source)))
}
