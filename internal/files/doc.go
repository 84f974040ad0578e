// Package files provides the file system operations shared by the report
// pipeline.
//
// WriteAtomic writes a file through a temporary sibling that is synced and
// renamed into place, so a reader never observes a partially written report.
// Describe returns size, modification time and SHA-256 digest of an input
// file for the run manifest.
//
// Example usage:
//
//	err := files.WriteAtomic("out/report.xlsx", func(w io.Writer) error {
//	    _, err := w.Write(payload)
//	    return err
//	})
//
//	info, err := files.Describe("tripinfo.output.xml")
package files
