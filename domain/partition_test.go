package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r ValueReader) []string {
	t.Helper()
	var out []string
	for r.HasNext() {
		out = append(out, r.Value())
		require.NoError(t, r.MoveNext())
	}
	return out
}

func TestPartitionInsertDropsEmpty(t *testing.T) {
	p := NewPartition(0, 0, 0, t.TempDir())
	p.Insert("")
	p.Insert("a")
	assert.Equal(t, 1, p.Len())
}

func TestPartitionSwapRoundTrip(t *testing.T) {
	p := NewPartition(1, 2, 0, t.TempDir())
	for _, v := range []string{"banana", "apple", "cherry", "apple"} {
		p.Insert(v)
	}

	before, err := p.Reader()
	require.NoError(t, err)
	beforeValues := readAll(t, before)
	require.NoError(t, before.Close())

	swapped, err := p.TrySwap()
	require.NoError(t, err)
	assert.True(t, swapped)

	after, err := p.Reader()
	require.NoError(t, err)
	afterValues := readAll(t, after)
	require.NoError(t, after.Close())

	assert.Equal(t, beforeValues, afterValues)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, afterValues)
	assert.Equal(t, float64(0), p.MemoryUsage())

	require.NoError(t, p.Close())
}

func TestPartitionTrySwapEmptyIsNoop(t *testing.T) {
	p := NewPartition(0, 0, 0, t.TempDir())
	swapped, err := p.TrySwap()
	require.NoError(t, err)
	assert.False(t, swapped)
}

func TestPartitionTrySwapIdempotent(t *testing.T) {
	p := NewPartition(0, 0, 0, t.TempDir())
	p.Insert("x")
	swapped, err := p.TrySwap()
	require.NoError(t, err)
	assert.True(t, swapped)

	swappedAgain, err := p.TrySwap()
	require.NoError(t, err)
	assert.False(t, swappedAgain)
}
