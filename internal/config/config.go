package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Toolchain ToolchainConfig `yaml:"toolchain" envconfig:"TOOLCHAIN"`
}

// LoggingConfig contains logging configuration.
// Leaf fields carry no envconfig tag: a tagged field is also looked up without
// the DRTKPI_ prefix, so a bare OUTPUT or VTYPE in the shell would leak in.
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" validate:"oneof=json text"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// ReportConfig holds the defaults for a report run. Command line flags override them.
type ReportConfig struct {
	Tripinfo     string `yaml:"tripinfo" validate:"required"`
	DispatchInfo string `yaml:"dispatchinfo"`
	DirectRoutes string `yaml:"direct_routes" split_words:"true"`
	Output       string `yaml:"output" validate:"required"`
	VehicleType  string `yaml:"vtype" split_words:"true" validate:"required"`
	SheetName    string `yaml:"sheet_name" split_words:"true" validate:"required,max=31"`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics for a run
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" split_words:"true" validate:"required"`
	Environment   string  `yaml:"environment"`
	TraceExporter string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
	EnableMetrics bool    `yaml:"enable_metrics" split_words:"true"`
}

// ToolchainConfig locates the simulator installation.
// SumoHome is read from DRTKPI_TOOLCHAIN_SUMO_HOME, falling back to SUMO_HOME.
type ToolchainConfig struct {
	SumoHome string `yaml:"sumo_home" split_words:"true"`
}

// ToolsDir returns the simulator tools directory, or "" when SumoHome is unset.
func (t ToolchainConfig) ToolsDir() string {
	if t.SumoHome == "" {
		return ""
	}
	return filepath.Join(t.SumoHome, "tools")
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of increasing precedence. An empty path searches
// the default locations; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if cfg.Toolchain.SumoHome == "" {
		cfg.Toolchain.SumoHome = os.Getenv(SumoHomeEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first existing default config file, or ""
func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Report: ReportConfig{
			Tripinfo:    DefaultTripinfoFile,
			Output:      DefaultOutputFile,
			VehicleType: DefaultVehicleType,
			SheetName:   DefaultSheetName,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			TraceExporter: DefaultTraceExporter,
			SampleRatio:   DefaultSampleRatio,
		},
	}
}
