package config

// Application constants
const (
	AppName    = "drtkpi"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment variable, e.g. DRTKPI_LOGGING_LEVEL.
	EnvPrefix = "DRTKPI"

	// SumoHomeEnv is the simulator's own installation variable, used when no
	// DRTKPI_TOOLCHAIN_SUMO_HOME is set.
	SumoHomeEnv = "SUMO_HOME"

	// Report defaults, matching the simulator's default output file names
	DefaultTripinfoFile = "tripinfo.output.xml"
	DefaultOutputFile   = "output.xls"
	DefaultVehicleType  = "drt"
	DefaultSheetName    = "output"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/drtkpi.log"

	// Telemetry
	DefaultTraceExporter = "none"
	DefaultSampleRatio   = 1.0
)

// configFileLocations are searched in order when no config file is given explicitly.
var configFileLocations = []string{
	"drtkpi.yaml",
	"configs/drtkpi.yaml",
	"../configs/drtkpi.yaml",
}
