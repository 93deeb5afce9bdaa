package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"

	"github.com/indspider/indspider/model"
)

// CSVStream streams rows out of a comma- or tab-separated file. It mirrors
// the teacher's file.FileDatabase in spirit: a thin pseudo-adapter that
// turns one on-disk artifact into the abstraction the rest of the engine
// consumes, nothing more.
type CSVStream struct {
	path    string
	comma   rune
	numCols int

	f    *os.File
	r    *csv.Reader
	row  int
	next []string
	eof  bool
}

// NewCSVStream opens path lazily on first Reset/read. comma selects the
// field separator (',' for CSV, '\t' for TSV). numCols is the table's
// declared column count (spec §4.3); rows of a different width are logged
// at warn level here and still handed to the caller, which is responsible
// for the log-and-skip policy of spec §7.
func NewCSVStream(path string, comma rune, numCols int) *CSVStream {
	return &CSVStream{path: path, comma: comma, numCols: numCols}
}

// NewTSVStream is NewCSVStream with the comma rune fixed to tab.
func NewTSVStream(path string, numCols int) *CSVStream {
	return NewCSVStream(path, '\t', numCols)
}

func (s *CSVStream) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return model.NewIOError("open", s.path, err)
	}
	s.f = f
	r := csv.NewReader(f)
	r.Comma = s.comma
	r.FieldsPerRecord = -1 // widths are validated by the caller, not csv.Reader
	r.ReuseRecord = false
	s.r = r
	s.row = 0
	s.eof = false
	return s.advance()
}

// advance reads one record into s.next, or sets s.eof once the file is exhausted.
func (s *CSVStream) advance() error {
	record, err := s.r.Read()
	if err == io.EOF {
		s.next = nil
		s.eof = true
		return nil
	}
	if err != nil {
		return model.NewIOError("read", s.path, err)
	}
	if len(record) != s.numCols {
		slog.Warn("row width mismatch", "path", s.path, "row", s.row, "expected", s.numCols, "actual", len(record))
	}
	s.next = record
	return nil
}

func (s *CSVStream) Reset(ctx context.Context) error {
	if s.f != nil {
		if err := s.f.Close(); err != nil {
			return model.NewIOError("close", s.path, err)
		}
	}
	return s.open()
}

func (s *CSVStream) HasNextRow(ctx context.Context) (bool, error) {
	if s.r == nil {
		if err := s.open(); err != nil {
			return false, err
		}
	}
	return !s.eof, nil
}

func (s *CSVStream) GetNextRow(ctx context.Context) ([]string, error) {
	if s.r == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}
	if s.eof {
		return nil, io.EOF
	}
	row := s.next
	s.row++
	if err := s.advance(); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *CSVStream) NumberOfColumns() int {
	return s.numCols
}

func (s *CSVStream) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
