package exporter

import (
	"strconv"
)

// formatFloat formats a KPI value with the fewest digits that round-trip exactly
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
