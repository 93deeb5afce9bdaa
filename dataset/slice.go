package dataset

import "context"

// SliceStream is an in-memory Stream over a fixed [][]string, used by tests
// and by small standalone runs that already hold their data in memory.
type SliceStream struct {
	rows    [][]string
	numCols int
	pos     int
}

// NewSliceStream builds a SliceStream over rows, all of which are expected
// to have numCols cells; rows with a different width are still returned
// as-is (shape checking happens in the ingest layer, per spec §4.3).
func NewSliceStream(numCols int, rows [][]string) *SliceStream {
	return &SliceStream{rows: rows, numCols: numCols}
}

func (s *SliceStream) Reset(ctx context.Context) error {
	s.pos = 0
	return nil
}

func (s *SliceStream) HasNextRow(ctx context.Context) (bool, error) {
	return s.pos < len(s.rows), nil
}

func (s *SliceStream) GetNextRow(ctx context.Context) ([]string, error) {
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *SliceStream) NumberOfColumns() int {
	return s.numCols
}

func (s *SliceStream) Close() error {
	return nil
}
