package domain

import (
	"testing"

	"github.com/indspider/indspider/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDomain(t *testing.T, values ...[]string) *ColumnDomain {
	t.Helper()
	var partitions []*Partition
	for i, vs := range values {
		p := NewPartition(0, 0, model.PartitionId(i), t.TempDir())
		for _, v := range vs {
			p.Insert(v)
		}
		partitions = append(partitions, p)
	}
	return NewColumnDomain(partitions)
}

func drainIterator(t *testing.T, d *ColumnDomain) []string {
	t.Helper()
	it, err := d.Iterator()
	require.NoError(t, err)
	defer it.Close()

	var out []string
	for it.HasNext() {
		out = append(out, it.Value())
		require.NoError(t, it.MoveNext())
	}
	return out
}

func TestColumnDomainIteratorSinglePartition(t *testing.T) {
	d := newTestDomain(t, []string{"b", "a", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, drainIterator(t, d))
}

func TestColumnDomainIteratorMergesAcrossPartitionsWithDuplicates(t *testing.T) {
	d := newTestDomain(t,
		[]string{"a", "c"},
		[]string{"b", "c"}, // "c" duplicated across partitions, per spec §3/§4.5
	)
	// the merge iterator does not de-duplicate across partitions
	assert.Equal(t, []string{"a", "b", "c", "c"}, drainIterator(t, d))
}

func TestColumnDomainIteratorAfterSwap(t *testing.T) {
	d := newTestDomain(t, []string{"z", "x", "y"})
	require.NoError(t, d.Swap())
	assert.Equal(t, []string{"x", "y", "z"}, drainIterator(t, d))
}
