// Package exporter writes KPI reports to spreadsheet files.
//
// This package contains two sinks selected by output file extension:
//
// XLSXSink: Writes a single-sheet workbook with one row per KPI (name in
// column A, value in column B) and no header row. Used for .xls and .xlsx.
//
// CSVSink: Writes the same two-column rows through CSVWriter. Used for .csv.
//
// Both sinks write through a temporary file that is synced and renamed into
// place, so a failed run never leaves a partial report behind.
//
// Example usage:
//
//	sink, err := exporter.NewSink("output.xls", exporter.Options{SheetName: "output"})
//	if err != nil {
//	    return err
//	}
//	err = sink.Write(ctx, report, "output.xls")
package exporter
