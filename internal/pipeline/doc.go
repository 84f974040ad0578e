// Package pipeline runs one KPI report: it reads the tripinfo source and the
// optional dispatchinfo and direct-route sources, aggregates them into a
// kpi.Report and hands the report to a sink.
//
// Each source is loaded, extracted and released in its own stage before the
// next source is opened. Every stage gets a tracing span, a duration metric
// and an entry in the RunManifest. Any error aborts the run before the sink
// is invoked, so a failed run never produces a report file.
package pipeline
