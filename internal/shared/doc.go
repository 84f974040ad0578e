// Package shared holds helpers used across the drtkpi packages.
//
// The testutil subpackage provides a capturing slog handler and the
// simulator output fixtures used by the pipeline and command tests.
package shared
