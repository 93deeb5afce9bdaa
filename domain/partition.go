// Package domain implements the memory/disk-backed column domain: a
// sorted, de-duplicated set of non-empty values per (table, column),
// materialized as one or more DomainPartitions and merge-read through a
// ColumnDomainIterator.
package domain

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/indspider/indspider/model"
)

// maxBytesPerChar upper-bounds the bytes-in-container cost per input
// character. This package does not use it; the memory governor
// (ingest.DomainManager) keeps its own copy for its initial block-count
// estimate.
const maxBytesPerChar = 16.0

// memoryMultiplier is an experimentally-derived container-overhead factor
// applied to every in-memory value estimate. It must be preserved as-is so
// the memory governor behaves consistently; re-tune only if the underlying
// container family changes.
const memoryMultiplier = 5.0

// nodeOverheadBytes approximates the per-entry bookkeeping cost of the
// in-memory sorted set (map/slice-of-strings overhead), independent of the
// string's own heap allocation.
const nodeOverheadBytes = 48

// Partition is a sorted, de-duplicated set of non-empty values for one
// (table, column, partition) triple. It is backed by an in-memory set until
// TrySwap spills it to disk; from that point on it is immutable and
// disk-backed for the remainder of the run.
type Partition struct {
	TableId     model.TableId
	ColumnId    model.ColumnId
	PartitionId model.PartitionId

	tmpDir string

	values  map[string]struct{} // nil once swapped
	swapped bool
	path    string
}

// NewPartition creates an empty, in-memory partition. tmpDir is the root
// directory swap files are written under (namespaced per-run by the
// caller, see ingest.DomainManager).
func NewPartition(table model.TableId, column model.ColumnId, partition model.PartitionId, tmpDir string) *Partition {
	return &Partition{
		TableId:     table,
		ColumnId:    column,
		PartitionId: partition,
		tmpDir:      tmpDir,
		values:      make(map[string]struct{}),
	}
}

// Insert adds v to the partition. Empty values are dropped (the domain
// representation treats them as null-like, spec §3). Insert after a swap
// is a programmer error; it panics, since spec's partition lifecycle says
// swap is terminal.
func (p *Partition) Insert(v string) {
	if v == "" {
		return
	}
	if p.swapped {
		panic("domain: Insert after TrySwap")
	}
	p.values[v] = struct{}{}
}

// Len returns the number of distinct values currently held, whichever
// storage mode is active. For a swapped partition this requires opening a
// reader, so callers on the hot path should prefer tracking counts
// themselves; Len is provided for tests and diagnostics.
func (p *Partition) Len() int {
	if !p.swapped {
		return len(p.values)
	}
	r, err := p.Reader()
	if err != nil {
		return 0
	}
	defer r.Close()
	n := 0
	for r.HasNext() {
		n++
		r.MoveNext()
	}
	return n
}

// MemoryUsage estimates the partition's in-memory footprint in bytes: zero
// once swapped, otherwise (node overhead * count + sum of string
// capacities) * memoryMultiplier (spec §4.1).
func (p *Partition) MemoryUsage() float64 {
	if p.swapped {
		return 0
	}
	var strBytes int
	for v := range p.values {
		strBytes += len(v)
	}
	return float64(nodeOverheadBytes*len(p.values)+strBytes) * memoryMultiplier
}

// sortedValues returns the partition's current in-memory values in
// ascending byte order.
func (p *Partition) sortedValues() []string {
	out := make([]string, 0, len(p.values))
	for v := range p.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// TrySwap spills the partition to disk if it is non-empty and not already
// swapped, writing values one per line in sorted order, no trailing
// newline, to {tmpDir}/{table}.{column}.{partition}. It returns false
// without effect for an empty or already-swapped partition (spec §4.1).
func (p *Partition) TrySwap() (bool, error) {
	if p.swapped || len(p.values) == 0 {
		return false, nil
	}
	if err := os.MkdirAll(p.tmpDir, 0o755); err != nil {
		return false, model.NewIOError("mkdir", p.tmpDir, err)
	}
	path := filepath.Join(p.tmpDir, fmt.Sprintf("%d.%d.%d", p.TableId, p.ColumnId, p.PartitionId))
	f, err := os.Create(path)
	if err != nil {
		return false, model.NewIOError("create", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	sorted := p.sortedValues()
	for i, v := range sorted {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				return false, model.NewIOError("write", path, err)
			}
		}
		if _, err := w.WriteString(v); err != nil {
			return false, model.NewIOError("write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return false, model.NewIOError("flush", path, err)
	}

	p.values = nil
	p.swapped = true
	p.path = path
	return true, nil
}

// Close removes the partition's swap file, if any. Callers must invoke
// Close on every exit path once a partition may have spilled, mirroring
// the source's destructor-based cleanup (spec §5).
func (p *Partition) Close() error {
	if !p.swapped || p.path == "" {
		return nil
	}
	err := os.Remove(p.path)
	p.path = ""
	if err != nil && !os.IsNotExist(err) {
		return model.NewIOError("remove", p.path, err)
	}
	return nil
}

// Reader opens a forward reader over the partition's values in ascending
// order, regardless of storage mode.
func (p *Partition) Reader() (ValueReader, error) {
	if p.swapped {
		return newFileReader(p.path)
	}
	return newMemoryReader(p.sortedValues()), nil
}
