package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"

	"github.com/indspider/indspider/model"
)

// OpenCSVDir globs pattern (e.g. "testdata/*.csv") and returns one CSVStream
// per match, sorted by path for determinism. Each file's column count is
// sniffed from its first record, since files under one glob need not share
// a schema. It turns a directory of files into the input_tables vector
// spec.md §6 describes; cmd/indspider takes an explicit file list instead
// and calls OpenCSVFile per path.
func OpenCSVDir(pattern string, comma rune) ([]Stream, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, model.NewIOError("glob", pattern, err)
	}
	sort.Strings(matches)
	streams := make([]Stream, 0, len(matches))
	for _, path := range matches {
		s, err := OpenCSVFile(path, comma)
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}

// OpenCSVFile sniffs path's column count from its first record and returns
// a CSVStream declared with that width. Used both by OpenCSVDir and
// directly by callers that already have an explicit file list rather than
// a glob pattern.
func OpenCSVFile(path string, comma rune) (*CSVStream, error) {
	numCols, err := sniffColumnCount(path, comma)
	if err != nil {
		return nil, err
	}
	return NewCSVStream(path, comma, numCols), nil
}

func sniffColumnCount(path string, comma rune) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, model.NewIOError("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil {
		return 0, model.NewIOError("sniff", path, err)
	}
	return len(record), nil
}
