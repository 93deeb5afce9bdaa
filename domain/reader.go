package domain

import (
	"bufio"
	"os"

	"github.com/indspider/indspider/model"
)

// ValueReader is a forward reader over one partition's sorted values. The
// design notes (spec §9) call for a tagged variant in place of the
// source's dynamic-polymorphism readers; memoryReader and fileReader are
// the two concrete implementations, used interchangeably through this
// interface by the merge heap in iterator.go.
type ValueReader interface {
	Value() string
	HasNext() bool
	MoveNext() error
	// TryMove advances the reader and reports whether another value followed.
	TryMove() (bool, error)
	Close() error
}

// memoryReader iterates an already-sorted in-memory slice.
type memoryReader struct {
	values []string
	pos    int
}

func newMemoryReader(sorted []string) *memoryReader {
	return &memoryReader{values: sorted}
}

func (r *memoryReader) Value() string {
	return r.values[r.pos]
}

func (r *memoryReader) HasNext() bool {
	return r.pos < len(r.values)
}

func (r *memoryReader) MoveNext() error {
	r.pos++
	return nil
}

func (r *memoryReader) TryMove() (bool, error) {
	r.pos++
	return r.HasNext(), nil
}

func (r *memoryReader) Close() error {
	return nil
}

// fileReader reads one value per line from a swap file written by
// Partition.TrySwap.
type fileReader struct {
	f       *os.File
	scanner *bufio.Scanner
	cur     string
	ok      bool
}

func newFileReader(path string) (*fileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewIOError("open", path, err)
	}
	r := &fileReader{f: f, scanner: bufio.NewScanner(f)}
	r.scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	if err := r.advance(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *fileReader) advance() error {
	r.ok = r.scanner.Scan()
	if r.ok {
		r.cur = r.scanner.Text()
	} else {
		r.cur = ""
		if err := r.scanner.Err(); err != nil {
			return model.NewIOError("read", r.f.Name(), err)
		}
	}
	return nil
}

func (r *fileReader) Value() string {
	return r.cur
}

func (r *fileReader) HasNext() bool {
	return r.ok
}

func (r *fileReader) MoveNext() error {
	return r.advance()
}

func (r *fileReader) TryMove() (bool, error) {
	if err := r.advance(); err != nil {
		return false, err
	}
	return r.ok, nil
}

func (r *fileReader) Close() error {
	return r.f.Close()
}
