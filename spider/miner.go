package spider

import (
	"container/heap"

	"github.com/indspider/indspider/domain"
	"github.com/indspider/indspider/model"
	"github.com/indspider/indspider/util"
)

// sweepHeapItem is a snapshot of one attribute's current cursor value,
// stored by id so the heap holds plain comparable values rather than live
// pointers into mutable state; the attribute is re-read by id on pop, per
// design note §9 ("store ids, not references").
type sweepHeapItem struct {
	value string
	id    model.AttributeId
}

// sweepHeap orders by ascending value, ties broken by ascending id
// (the attribute order of spec §4.6), built the same way as the
// teacher pack's container/heap-based merge heaps (erigon's CursorHeap).
type sweepHeap []sweepHeapItem

func (h sweepHeap) Len() int { return len(h) }
func (h sweepHeap) Less(i, j int) bool {
	if h[i].value != h[j].value {
		return h[i].value < h[j].value
	}
	return h[i].id < h[j].id
}
func (h sweepHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *sweepHeap) Push(x any)        { *h = append(*h, x.(sweepHeapItem)) }
func (h *sweepHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ProgressFunc is invoked each time an attribute finishes during the
// sweep, reporting how many attributes have finished out of the total. It is the progress hook
// supplementing the distilled spec with the original engine's
// observability callback (SPEC_FULL.md §12).
type ProgressFunc func(finished, total int)

// Miner runs the sort-merge sweep (the Spider algorithm, spec §4.7) over
// a vector of column domains, producing the complete UIND set in one pass.
type Miner struct {
	OnProgress ProgressFunc
}

// NewMiner builds a Miner with no progress hook; set OnProgress to observe
// sweep progress.
func NewMiner() *Miner {
	return &Miner{}
}

// MineRequest names one (table, column) input to the sweep, in the
// production order that defines its dense attribute id (spec §3).
type MineRequest struct {
	Table  model.TableId
	Column model.ColumnId
	Domain *domain.ColumnDomain
}

// PrepareAttributes builds one Attribute per domain, seeded with its full
// candidate ref/dep sets (spec §4.6). Split out from Mine so callers can
// time attribute construction (the "init" stage, SPEC_FULL.md §6)
// separately from the sweep itself, the way the original engine's
// spider.cpp times "build" and "compute" as separate phases.
func (m *Miner) PrepareAttributes(domains []MineRequest) ([]*Attribute, error) {
	total := len(domains)
	attrs := make([]*Attribute, total)
	for i, d := range domains {
		a, err := newAttribute(model.AttributeId(i), d.Table, d.Column, total, d.Domain)
		if err != nil {
			for _, prior := range attrs[:i] {
				if prior != nil {
					prior.Close()
				}
			}
			return nil, err
		}
		attrs[i] = a
	}
	return attrs, nil
}

// Mine runs the sweep over domains (in order) and returns every emitted
// UIND (spec §4.7). Self-references are never produced.
func (m *Miner) Mine(domains []MineRequest) ([]model.UIND, error) {
	attrs, err := m.PrepareAttributes(domains)
	if err != nil {
		return nil, err
	}
	return m.Sweep(attrs)
}

// Sweep runs the sort-merge sweep over already-prepared attributes,
// closing every attribute before returning.
func (m *Miner) Sweep(attrs []*Attribute) ([]model.UIND, error) {
	total := len(attrs)
	defer func() {
		for _, a := range attrs {
			a.Close()
		}
	}()

	h := make(sweepHeap, 0, total)
	for _, a := range attrs {
		if a.HasNext() {
			heap.Push(&h, sweepHeapItem{value: a.Value(), id: a.Id})
		}
	}
	heap.Init(&h)

	finished := 0
	for h.Len() > 0 {
		top := heap.Pop(&h).(sweepHeapItem)
		v := top.value
		group := map[model.AttributeId]struct{}{top.id: {}}

		for h.Len() > 0 && h[0].value == v {
			next := heap.Pop(&h).(sweepHeapItem)
			group[next.id] = struct{}{}
		}

		for id := range group {
			attrs[id].IntersectRefs(group, attrs)
		}

		for id := range group {
			a := attrs[id]
			if a.HasFinished() {
				finished++
				if m.OnProgress != nil {
					m.OnProgress(finished, total)
				}
				continue
			}
			// The domain iterator does not de-duplicate across partitions,
			// so skip every repeated copy of v before re-pushing.
			for a.HasNext() && a.Value() == v {
				if err := a.Advance(); err != nil {
					return nil, err
				}
			}
			if a.HasNext() {
				heap.Push(&h, sweepHeapItem{value: a.Value(), id: a.Id})
			} else {
				finished++
				if m.OnProgress != nil {
					m.OnProgress(finished, total)
				}
			}
		}
	}

	var result []model.UIND
	for _, a := range attrs {
		for r := range util.CanonicalMapIter(a.Refs) {
			ref := attrs[r]
			result = append(result, model.UIND{
				Dependent:  model.UnaryColumnCombination(a.Table, a.Column),
				Referenced: model.UnaryColumnCombination(ref.Table, ref.Column),
			})
		}
	}
	return result, nil
}
