// Package dataset adapts tabular inputs (CSV/TSV files, in-memory slices,
// and SQL query results) into the row-by-row DatasetStream abstraction that
// the discovery and verification engines consume. Parsing, connection
// handling, and file formats live here; the engine packages never see a
// concrete source, only the Stream interface.
package dataset

import "context"

// Stream is the consumed interface described by the engine: row-by-row
// access to one table with a known, fixed column count.
type Stream interface {
	// Reset rewinds the stream to its beginning. Re-reading the same stream
	// for the verifier's LHS/RHS passes goes through Reset, not a fresh open.
	Reset(ctx context.Context) error

	// HasNextRow reports whether another row is available without consuming it.
	HasNextRow(ctx context.Context) (bool, error)

	// GetNextRow returns the next row and advances the stream.
	GetNextRow(ctx context.Context) ([]string, error)

	// NumberOfColumns returns the table's declared column count.
	NumberOfColumns() int

	// Close releases any resources (open files, DB connections) held by the stream.
	Close() error
}
