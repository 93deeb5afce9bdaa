package spider

import (
	"context"
	"math/rand"
	"testing"

	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/ingest"
	"github.com/indspider/indspider/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mine(t *testing.T, columns [][]string) []model.UIND {
	t.Helper()
	tmp := t.TempDir()
	reqs := make([]MineRequest, len(columns))
	for i, col := range columns {
		reqs[i] = MineRequest{
			Table:  0,
			Column: model.ColumnId(i),
			Domain: domainFromValues(tmp, 0, i, col),
		}
	}
	uinds, err := NewMiner().Mine(reqs)
	require.NoError(t, err)
	return uinds
}

func pairSet(uinds []model.UIND) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for _, u := range uinds {
		out[[2]int{int(u.Dependent.ColumnIds[0]), int(u.Referenced.ColumnIds[0])}] = true
	}
	return out
}

func TestMinerTwoTablesExample(t *testing.T) {
	// spec §8: A = [1,2,3], B = [1,2,3,4] -> only A.0 -> B.0
	uinds := mine(t, [][]string{
		{"1", "2", "3"},
		{"1", "2", "3", "4"},
	})
	got := pairSet(uinds)
	assert.Equal(t, map[[2]int]bool{{0, 1}: true}, got)
}

func TestMinerThreeTablesExample(t *testing.T) {
	// spec §8: A=[1], B=[1,2], C=[1] -> {A->B, A->C, C->A, C->B}
	uinds := mine(t, [][]string{
		{"1"},
		{"1", "2"},
		{"1"},
	})
	got := pairSet(uinds)
	want := map[[2]int]bool{
		{0, 1}: true,
		{0, 2}: true,
		{2, 0}: true,
		{2, 1}: true,
	}
	assert.Equal(t, want, got)
}

func TestMinerNoReflexivePairs(t *testing.T) {
	uinds := mine(t, [][]string{
		{"1", "2"},
		{"1", "2"},
	})
	for _, u := range uinds {
		assert.NotEqual(t, u.Dependent, u.Referenced)
	}
}

func TestMinerMutualSymmetric(t *testing.T) {
	uinds := mine(t, [][]string{
		{"1", "2"},
		{"1", "2"},
		{"3"},
	})
	got := pairSet(uinds)
	assert.True(t, got[[2]int{0, 1}])
	assert.True(t, got[[2]int{1, 0}])
}

func TestMinerSoundnessAndCompletenessAgainstBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "b", "c", "d", "e", ""}

	for trial := 0; trial < 20; trial++ {
		numCols := 2 + r.Intn(3)
		numRows := 3 + r.Intn(8)
		columns := make([][]string, numCols)
		for c := 0; c < numCols; c++ {
			col := make([]string, numRows)
			for rI := 0; rI < numRows; rI++ {
				col[rI] = alphabet[r.Intn(len(alphabet))]
			}
			columns[c] = col
		}

		got := pairSet(mine(t, columns))
		want := bruteForceUINDs(columns)
		assert.Equal(t, sortedKeys(want), sortedKeys(got), "trial %d: columns=%v", trial, columns)
	}
}

// mineViaIngest runs rows through a real DomainManager (not the
// domainFromValues test shortcut) so threads_num and mem_limit_mb actually
// influence block sizing and partition spilling before the sweep runs.
func mineViaIngest(t *testing.T, rows [][]string, cfg ingest.Config) []model.UIND {
	t.Helper()
	cfg.TmpRoot = t.TempDir()
	mgr, err := ingest.NewDomainManager(cfg)
	require.NoError(t, err)
	defer mgr.Close()

	require.NoError(t, mgr.IngestTable(context.Background(), 0, dataset.NewSliceStream(len(rows[0]), rows)))

	domains := mgr.Domains()
	reqs := make([]MineRequest, len(domains))
	for i, d := range domains {
		reqs[i] = MineRequest{Table: model.TableId(d.Table()), Column: model.ColumnId(d.Column()), Domain: d}
	}
	uinds, err := NewMiner().Mine(reqs)
	require.NoError(t, err)
	return uinds
}

// TestMinerOutputIndependentOfThreadsAndMemLimit covers spec §8 property 5:
// the discovered UIND set is a pure function of the input data, invariant
// to threads_num and mem_limit_mb. A small mem_limit_mb forces smaller
// blocks and (for large enough inputs) mid-ingest spills; the mined result
// must come out identical regardless.
func TestMinerOutputIndependentOfThreadsAndMemLimit(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	alphabet := []string{"a", "b", "c", "d", "e", "f", "g", ""}
	numCols := 4
	numRows := 400
	rows := make([][]string, numRows)
	for i := range rows {
		row := make([]string, numCols)
		for c := range row {
			row[c] = alphabet[r.Intn(len(alphabet))]
		}
		rows[i] = row
	}

	small := pairSet(mineViaIngest(t, rows, ingest.Config{MemLimitMB: 16, ThreadsNum: 1}))
	large := pairSet(mineViaIngest(t, rows, ingest.Config{MemLimitMB: 256, ThreadsNum: 8}))

	assert.Equal(t, small, large)
}
