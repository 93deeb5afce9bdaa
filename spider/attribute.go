// Package spider implements the global sort-merge sweep (the Spider
// algorithm) that mines every unary inclusion dependency across a vector
// of column domains in one pass (spec §4.6-§4.7).
package spider

import (
	"github.com/indspider/indspider/domain"
	"github.com/indspider/indspider/model"
)

// Attribute is one (table, column)'s processing state during the sweep:
// its domain cursor plus the candidate reference/dependent sets that
// shrink monotonically until the attribute finishes (spec §4.6).
type Attribute struct {
	Id      model.AttributeId
	Table   model.TableId
	Column  model.ColumnId
	domain  *domain.ColumnDomain
	cursor  *domain.ColumnDomainIterator

	// Refs holds the attributes this attribute might still reference
	// (dependent ⊆ referenced candidates); Deps holds the attributes that
	// might still depend on this one. Both start as every other attribute
	// id and only ever shrink (spec §3 global invariants).
	Refs map[model.AttributeId]struct{}
	Deps map[model.AttributeId]struct{}
}

// newAttribute builds an Attribute with full candidate sets over
// [0, totalAttrs), excluding its own id, and an already-opened cursor over
// dom.
func newAttribute(id model.AttributeId, table model.TableId, column model.ColumnId, totalAttrs int, dom *domain.ColumnDomain) (*Attribute, error) {
	cursor, err := dom.Iterator()
	if err != nil {
		return nil, err
	}
	refs := make(map[model.AttributeId]struct{}, totalAttrs-1)
	deps := make(map[model.AttributeId]struct{}, totalAttrs-1)
	for i := 0; i < totalAttrs; i++ {
		if model.AttributeId(i) == id {
			continue
		}
		refs[model.AttributeId(i)] = struct{}{}
		deps[model.AttributeId(i)] = struct{}{}
	}
	return &Attribute{
		Id:     id,
		Table:  table,
		Column: column,
		domain: dom,
		cursor: cursor,
		Refs:   refs,
		Deps:   deps,
	}, nil
}

// HasNext reports whether the attribute's domain cursor has a current value.
func (a *Attribute) HasNext() bool {
	return a.cursor.HasNext()
}

// Value returns the attribute's current domain value.
func (a *Attribute) Value() string {
	return a.cursor.Value()
}

// Advance moves the attribute's cursor forward.
func (a *Attribute) Advance() error {
	return a.cursor.MoveNext()
}

// HasFinished reports true once the cursor is exhausted or both candidate
// sets are empty (spec §4.6).
func (a *Attribute) HasFinished() bool {
	return !a.cursor.HasNext() || (len(a.Refs) == 0 && len(a.Deps) == 0)
}

// IntersectRefs removes every current ref not present in group from this
// attribute's Refs, and removes this attribute from that ref's Deps,
// preserving the mutual back-reference invariant (spec §4.6).
func (a *Attribute) IntersectRefs(group map[model.AttributeId]struct{}, attrs []*Attribute) {
	for r := range a.Refs {
		if _, ok := group[r]; !ok {
			delete(a.Refs, r)
			delete(attrs[r].Deps, a.Id)
		}
	}
}

// Close releases the attribute's domain cursor.
func (a *Attribute) Close() error {
	return a.cursor.Close()
}
