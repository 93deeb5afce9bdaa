package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/indspider/indspider/model"
)

// SQLStream runs a fixed query against a configured database/sql driver and
// streams its result rows as []string, formatting non-string columns with
// fmt.Sprint. It gives the engine a DB-table input path alongside the
// file-based streams, built on the same driver set the teacher's adapter/
// and driver/ packages dial into.
type SQLStream struct {
	cfg   SQLConfig
	query string

	db      *sql.DB
	rows    *sql.Rows
	numCols int
}

// NewSQLStream records cfg and query; the connection is opened and query
// run on the first Reset or HasNextRow call. query must select exactly the columns the run is meant to treat
// as a table; numCols is NumberOfColumns()'s declared value.
func NewSQLStream(cfg SQLConfig, query string, numCols int) *SQLStream {
	return &SQLStream{cfg: cfg, query: query, numCols: numCols}
}

func (s *SQLStream) open(ctx context.Context) error {
	if s.db == nil {
		dsn, err := buildDSN(s.cfg)
		if err != nil {
			return err
		}
		db, err := sql.Open(s.cfg.Driver, dsn)
		if err != nil {
			return model.NewIOError("open", s.cfg.DbName, err)
		}
		s.db = db
	}
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return model.NewIOError("query", s.query, err)
	}
	s.rows = rows
	return nil
}

func (s *SQLStream) Reset(ctx context.Context) error {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
	return s.open(ctx)
}

func (s *SQLStream) HasNextRow(ctx context.Context) (bool, error) {
	if s.rows == nil {
		if err := s.open(ctx); err != nil {
			return false, err
		}
	}
	return s.rows.Next(), nil
}

// GetNextRow scans the row that the most recent HasNextRow call advanced to.
// Unlike the Stream interface's description, SQLStream.HasNextRow moves the
// underlying sql.Rows cursor, so a second HasNextRow call skips a row;
// callers must call HasNextRow exactly once immediately before each
// GetNextRow.
func (s *SQLStream) GetNextRow(ctx context.Context) ([]string, error) {
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, model.NewIOError("columns", s.query, err)
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, model.NewIOError("scan", s.query, err)
	}
	row := make([]string, len(cols))
	for i, v := range values {
		if v == nil {
			row[i] = ""
			continue
		}
		if b, ok := v.([]byte); ok {
			row[i] = string(b)
			continue
		}
		row[i] = fmt.Sprint(v)
	}
	return row, nil
}

func (s *SQLStream) NumberOfColumns() int {
	return s.numCols
}

func (s *SQLStream) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
