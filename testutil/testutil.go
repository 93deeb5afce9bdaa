// Package testutil holds small dataset-building helpers shared across this
// module's test files, the way the teacher's own testutil package centralizes
// fixture construction rather than letting each *_test.go reinvent it.
package testutil

import (
	"testing"

	"github.com/indspider/indspider/dataset"
	"github.com/stretchr/testify/require"
)

// Table builds an in-memory dataset.Stream from literal rows, inferring the
// column count from the first row; a table with no rows has zero columns.
func Table(t *testing.T, rows ...[]string) dataset.Stream {
	t.Helper()
	numCols := 0
	if len(rows) > 0 {
		numCols = len(rows[0])
	}
	for i, row := range rows {
		require.Len(t, row, numCols, "row %d width mismatch", i)
	}
	return dataset.NewSliceStream(numCols, rows)
}

// Column builds a single-column Stream from a flat value list, for tests
// that only care about one attribute's domain.
func Column(t *testing.T, values ...string) dataset.Stream {
	t.Helper()
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return dataset.NewSliceStream(1, rows)
}
