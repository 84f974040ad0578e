// Command drtkpi aggregates the output of a DRT simulation run into a KPI report.
//
// Usage:
//
//	drtkpi -tripinfo tripinfo.output.xml -dispatchinfo dispatchinfo.xml -output output.xls
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"drtkpi/internal/config"
	apperrors "drtkpi/internal/errors"
	"drtkpi/internal/extract"
	"drtkpi/internal/infrastructure"
	"drtkpi/internal/pipeline"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	configPath   string
	manifestPath string
	metricsPath  string
	logLevel     string

	tripinfo       string
	dispatchinfo   string
	directRoutes   string
	output         string
	vtype          string
	departEarliest optionalFloat
	arrivalLatest  optionalFloat

	// set records which flags were given explicitly
	set map[string]bool
}

// optionalFloat is a float flag that stays disabled unless given
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f == nil || f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f.value = &v
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("Invalid command line", "error", err)
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		slog.Error("Report generation failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, usageOut io.Writer) (*cliOptions, error) {
	opts := &cliOptions{}
	fs := flag.NewFlagSet("drtkpi", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	fs.StringVar(&opts.tripinfo, "tripinfo", config.DefaultTripinfoFile, "tripinfo output of the simulation run")
	fs.StringVar(&opts.dispatchinfo, "dispatchinfo", "", "dispatchinfo output with pooled dispatch events (optional)")
	fs.StringVar(&opts.directRoutes, "directRoutes", "", "routes of the undisturbed direct trips (optional)")
	fs.StringVar(&opts.output, "output", config.DefaultOutputFile, "report file (.xls, .xlsx or .csv)")
	fs.StringVar(&opts.vtype, "vtype", config.DefaultVehicleType, "vehicle type of the DRT fleet")
	fs.Var(&opts.departEarliest, "departEarliest", "ignore persons departing before this time in seconds (optional)")
	fs.Var(&opts.arrivalLatest, "arrivalLatest", "ignore persons arriving after this time in seconds (optional)")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to drtkpi.yaml or configs/drtkpi.yaml if present)")
	fs.StringVar(&opts.manifestPath, "manifest", "", "write the JSON run manifest to this file")
	fs.StringVar(&opts.metricsPath, "metrics", "", "write run metrics in Prometheus text format to this file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply overlays explicitly given flags onto the loaded configuration
func (o *cliOptions) apply(cfg *config.Config) {
	if o.set["tripinfo"] {
		cfg.Report.Tripinfo = o.tripinfo
	}
	if o.set["dispatchinfo"] {
		cfg.Report.DispatchInfo = o.dispatchinfo
	}
	if o.set["directRoutes"] {
		cfg.Report.DirectRoutes = o.directRoutes
	}
	if o.set["output"] {
		cfg.Report.Output = o.output
	}
	if o.set["vtype"] {
		cfg.Report.VehicleType = o.vtype
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.metricsPath != "" {
		cfg.Telemetry.EnableMetrics = true
	}
}

func (o *cliOptions) window() extract.TimeWindow {
	return extract.TimeWindow{
		DepartEarliest: o.departEarliest.value,
		ArrivalLatest:  o.arrivalLatest.value,
	}
}

func run(ctx context.Context, opts *cliOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return apperrors.NewConfigError("failed to load configuration", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return apperrors.NewConfigError("invalid configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, os.Stderr, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	if cfg.Toolchain.SumoHome == "" {
		logger.Debug("SUMO_HOME not set")
	}

	runOpts := pipeline.OptionsFromConfig(cfg.Report)
	runOpts.Window = opts.window()

	result, runErr := pipeline.NewRunner(logger, telemetry, cfg.Toolchain).Run(ctx, runOpts)

	if opts.manifestPath != "" && result != nil {
		if err := result.Manifest.SaveToFile(opts.manifestPath); err != nil {
			logger.Error("Failed to write run manifest",
				slog.String("path", opts.manifestPath),
				slog.String("error", err.Error()))
		}
	}
	if opts.metricsPath != "" {
		if err := telemetry.WriteMetrics(opts.metricsPath); err != nil {
			logger.Error("Failed to write metrics",
				slog.String("path", opts.metricsPath),
				slog.String("error", err.Error()))
		}
	}

	return runErr
}
