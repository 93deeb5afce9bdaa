package verify

import (
	"context"
	"testing"

	"github.com/indspider/indspider/model"
	"github.com/indspider/indspider/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ind(lhsTable, rhsTable model.TableId, lhsIdx, rhsIdx model.ColumnId) model.IND {
	return model.IND{
		LHSTable:   lhsTable,
		RHSTable:   rhsTable,
		LHSIndices: []model.ColumnId{lhsIdx},
		RHSIndices: []model.ColumnId{rhsIdx},
	}
}

func TestVerifyViolatingExample(t *testing.T) {
	// 5 rows, col0 and col1 share no values: 3 distinct LHS values (a,b,c),
	// every one of them violates, yielding 3 clusters, 5 violating rows, error 1.0.
	s := testutil.Table(t,
		[]string{"a", "x"},
		[]string{"a", "y"},
		[]string{"b", "z"},
		[]string{"b", "w"},
		[]string{"c", "q"},
	)
	r, err := Verify(context.Background(), Config{}, s, s, ind(0, 0, 0, 1))
	require.NoError(t, err)
	assert.False(t, r.Holds)
	assert.Equal(t, 1.0, r.Error)
	assert.Equal(t, 5, r.ViolatingRows)
	assert.Equal(t, 3, r.ViolatingUniqueRows)
	assert.Len(t, r.ViolatingClusters, 3)
}

func TestVerifyHoldsSameStream(t *testing.T) {
	s := testutil.Table(t,
		[]string{"1", "1"},
		[]string{"2", "2"},
		[]string{"3", "1"},
	)
	r, err := Verify(context.Background(), Config{}, s, s, ind(0, 0, 1, 0))
	require.NoError(t, err)
	assert.True(t, r.Holds)
	assert.Equal(t, 0.0, r.Error)
	assert.Equal(t, 0, r.ViolatingRows)
}

func TestVerifyHoldsAcrossTwoTables(t *testing.T) {
	lhs := testutil.Table(t,
		[]string{"1"},
		[]string{"2"},
		[]string{"2"},
	)
	rhs := testutil.Table(t,
		[]string{"9", "1"},
		[]string{"9", "2"},
		[]string{"9", "3"},
	)
	r, err := Verify(context.Background(), Config{}, lhs, rhs, ind(0, 1, 0, 1))
	require.NoError(t, err)
	assert.True(t, r.Holds)
	assert.Equal(t, 0.0, r.Error)
}

func TestVerifyRejectsMismatchedArity(t *testing.T) {
	s := testutil.Table(t, []string{"1", "2"})
	_, err := Verify(context.Background(), Config{}, s, s, model.IND{
		LHSIndices: []model.ColumnId{0, 1},
		RHSIndices: []model.ColumnId{0},
	})
	require.Error(t, err)
	var cfgErr *model.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestVerifyRejectsOutOfRangeIndex(t *testing.T) {
	s := testutil.Table(t, []string{"1", "2"})
	_, err := Verify(context.Background(), Config{}, s, s, ind(0, 0, 0, 5))
	require.Error(t, err)
}
