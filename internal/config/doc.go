// Package config provides configuration loading for the drtkpi report tool.
//
// Configuration is assembled from three layers, later layers overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file (drtkpi.yaml, configs/drtkpi.yaml, or an explicit path)
//	3. Environment variables prefixed with DRTKPI_
//
// Environment variables follow the struct nesting:
//
//	DRTKPI_LOGGING_LEVEL=debug
//	DRTKPI_REPORT_VEHICLE_TYPE=taxi
//	DRTKPI_TELEMETRY_TRACE_EXPORTER=stdout
//	SUMO_HOME=/usr/share/sumo
//
// Only DRTKPI_ variables are read, apart from SUMO_HOME, which fills the
// toolchain location when DRTKPI_TOOLCHAIN_SUMO_HOME is unset.
//
// The merged configuration is validated with struct tags before it is returned.
// Command line flags in cmd/drtkpi take precedence over everything loaded here.
package config
