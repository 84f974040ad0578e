// Package kpi turns extracted DRT record sets into the ordered KPI report.
//
// Aggregate is a pure function: it borrows the extractor results read-only
// and returns a new Report. Durations are reported in minutes and distances
// in kilometres. KPIs whose optional input was absent carry Sentinel; the
// report always contains the full key set.
package kpi
