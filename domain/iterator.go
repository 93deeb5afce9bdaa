package domain

import "container/heap"

// readerHeapItem pairs a partition reader with the partition index it came
// from, purely for a stable tie-break; the heap orders by Value().
type readerHeapItem struct {
	reader ValueReader
	idx    int
}

// readerHeap is a min-heap over readerHeapItem keyed by reader.Value(),
// following the same container/heap shape as the teacher pack's
// CursorHeap (erigon's state-domain merge iterator): a slice type
// implementing heap.Interface, holding pointers so Pop/Push are O(log n).
type readerHeap []*readerHeapItem

func (h readerHeap) Len() int { return len(h) }
func (h readerHeap) Less(i, j int) bool {
	if h[i].reader.Value() != h[j].reader.Value() {
		return h[i].reader.Value() < h[j].reader.Value()
	}
	return h[i].idx < h[j].idx
}
func (h readerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *readerHeap) Push(x any)   { *h = append(*h, x.(*readerHeapItem)) }
func (h *readerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// ColumnDomainIterator unifies every partition reader of one domain into a
// single globally sorted stream of strings (spec §4.5). It advances
// one-reader-at-a-time and does not de-duplicate across readers;
// consumers that need a strictly ascending, duplicate-free stream (the
// sweep, §4.7) must coalesce equal successive values themselves.
type ColumnDomainIterator struct {
	h     readerHeap
	value string
	valid bool
}

func newColumnDomainIterator(partitions []*Partition) (*ColumnDomainIterator, error) {
	it := &ColumnDomainIterator{}
	for i, p := range partitions {
		r, err := p.Reader()
		if err != nil {
			it.Close()
			return nil, err
		}
		if r.HasNext() {
			heap.Push(&it.h, &readerHeapItem{reader: r, idx: i})
		} else {
			r.Close()
		}
	}
	if it.h.Len() > 0 {
		it.value = it.h[0].reader.Value()
		it.valid = true
	}
	return it, nil
}

// HasNext reports whether Value() is valid.
func (it *ColumnDomainIterator) HasNext() bool {
	return it.valid
}

// Value returns the current smallest value across all partition readers.
func (it *ColumnDomainIterator) Value() string {
	return it.value
}

// MoveNext pops the top reader, advances it, and pushes it back if it has
// more values; the new top becomes the current value.
func (it *ColumnDomainIterator) MoveNext() error {
	if !it.valid {
		return nil
	}
	top := heap.Pop(&it.h).(*readerHeapItem)
	hasNext, err := top.reader.TryMove()
	if err != nil {
		return err
	}
	if hasNext {
		heap.Push(&it.h, top)
	} else {
		top.reader.Close()
	}
	if it.h.Len() > 0 {
		it.value = it.h[0].reader.Value()
	} else {
		it.valid = false
		it.value = ""
	}
	return nil
}

// Close releases every still-open partition reader.
func (it *ColumnDomainIterator) Close() error {
	var firstErr error
	for _, item := range it.h {
		if err := item.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	it.h = nil
	return firstErr
}
