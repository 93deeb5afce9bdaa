package spider

import (
	"sort"

	"github.com/indspider/indspider/domain"
	"github.com/indspider/indspider/model"
)

// bruteForceUINDs computes the UIND set directly from the raw column
// values (O(n^2) set-containment checks), independent of the sweep, for
// use as the reference in soundness/completeness property tests (spec §8
// properties 2 and 3).
func bruteForceUINDs(columns [][]string) map[[2]int]bool {
	sets := make([]map[string]struct{}, len(columns))
	for i, col := range columns {
		s := make(map[string]struct{})
		for _, v := range col {
			if v != "" {
				s[v] = struct{}{}
			}
		}
		sets[i] = s
	}

	result := make(map[[2]int]bool)
	for i := range sets {
		for j := range sets {
			if i == j {
				continue
			}
			includes := true
			for v := range sets[i] {
				if _, ok := sets[j][v]; !ok {
					includes = false
					break
				}
			}
			if includes {
				result[[2]int{i, j}] = true
			}
		}
	}
	return result
}

// domainFromValues builds a single-partition ColumnDomain directly from a
// slice of raw cell values, for use by tests that don't need the full
// ingest pipeline.
func domainFromValues(tmpDir string, table, column int, values []string) *domain.ColumnDomain {
	p := domain.NewPartition(model.TableId(table), model.ColumnId(column), 0, tmpDir)
	for _, v := range values {
		p.Insert(v)
	}
	return domain.NewColumnDomain([]*domain.Partition{p})
}

func sortedKeys(m map[[2]int]bool) [][2]int {
	out := make([][2]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
