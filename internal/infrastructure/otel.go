package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"drtkpi/internal/config"
)

// InstrumentationName names the tracer and meter used by the pipeline
const InstrumentationName = "drtkpi"

// Telemetry holds the OpenTelemetry providers for one run. Tracer and Meter are
// always usable; they are no-ops when the corresponding signal is disabled.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry receives the metrics through the Prometheus exporter; nil when disabled.
	Registry *prometheus.Registry
	Metrics  *PipelineMetrics
	logger   *slog.Logger
}

// PipelineMetrics are the instruments recorded by a report run
type PipelineMetrics struct {
	StageDuration   metric.Float64Histogram
	RecordsRead     metric.Int64Counter
	RecordsFiltered metric.Int64Counter
	KPIValue        metric.Float64Gauge
	RunFailures     metric.Int64Counter
}

// InitializeTelemetry sets up tracing and metrics according to cfg. Span output
// for the "stdout" exporter goes to traceOut (os.Stderr when nil).
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{logger: logger}

	if err := t.initializeTracing(ctx, cfg, res, traceOut); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(ctx, cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	metrics, err := CreatePipelineMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	t.Metrics = metrics

	return t, nil
}

// NoopTelemetry returns telemetry that records nothing
func NoopTelemetry() *Telemetry {
	t := &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:  metricnoop.NewMeterProvider().Meter(InstrumentationName),
		logger: GetLogger(),
	}
	t.Metrics, _ = CreatePipelineMetrics(t.Meter)
	return t
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	), nil
}

func (t *Telemetry) initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) error {
	switch cfg.TraceExporter {
	case "stdout":
		if out == nil {
			out = os.Stderr
		}
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		t.TracerProvider = tp
		t.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
		otel.SetTracerProvider(tp)

		t.logger.DebugContext(ctx, "Tracing initialized",
			slog.String("exporter", cfg.TraceExporter),
			slog.Float64("sample_ratio", cfg.SampleRatio))
	case "none", "":
		t.Tracer = tracenoop.NewTracerProvider().Tracer(InstrumentationName)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

func (t *Telemetry) initializeMetrics(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	if !cfg.EnableMetrics {
		t.Meter = metricnoop.NewMeterProvider().Meter(InstrumentationName)
		return nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.MeterProvider = mp
	t.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
	t.Registry = registry

	t.logger.DebugContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// CreatePipelineMetrics creates the run's instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stageDuration, err := meter.Float64Histogram(
		"drtkpi_stage_duration",
		metric.WithDescription("Duration of a pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsRead, err := meter.Int64Counter(
		"drtkpi_records_read",
		metric.WithDescription("Records read from an input source"),
	)
	if err != nil {
		return nil, err
	}

	recordsFiltered, err := meter.Int64Counter(
		"drtkpi_records_filtered",
		metric.WithDescription("Person records discarded by the time window or validity filter"),
	)
	if err != nil {
		return nil, err
	}

	kpiValue, err := meter.Float64Gauge(
		"drtkpi_kpi_value",
		metric.WithDescription("Value of a report KPI; -1 marks a KPI undefined for this run"),
	)
	if err != nil {
		return nil, err
	}

	runFailures, err := meter.Int64Counter(
		"drtkpi_run_failures",
		metric.WithDescription("Failed report runs by error type"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StageDuration:   stageDuration,
		RecordsRead:     recordsRead,
		RecordsFiltered: recordsFiltered,
		KPIValue:        kpiValue,
		RunFailures:     runFailures,
	}, nil
}

// RecordStage records a stage's duration and outcome
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("success", success),
	))
}

// WriteMetrics writes the gathered metrics to path in Prometheus text format,
// suitable for the node exporter textfile collector.
func (t *Telemetry) WriteMetrics(path string) error {
	if t.Registry == nil {
		return fmt.Errorf("metrics are not enabled")
	}
	return prometheus.WriteToTextfile(path, t.Registry)
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
