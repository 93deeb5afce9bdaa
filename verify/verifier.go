// Package verify implements the tuple-projection-based IND verifier
// (C8): given a candidate inclusion dependency between two tables, it
// reports whether the IND holds and, if not, quantifies the violation via
// a two-pass hash join (spec §4.8).
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/model"
)

// Config carries the verifier-side knobs from the configuration surface
// (spec §6), plus the equal-nulls knob supplemented from the original
// engine (SPEC_FULL.md §12): it is accepted and stored but currently
// inert, since the data model has no null representation that reaches the
// verifier. Unlike the domain builder, which drops empty values, this
// package projects empty cells as ordinary values.
type Config struct {
	EqualNulls bool
}

// Cluster is a sequence of LHS row indices sharing one violating LHS
// projection — one projected tuple that never appears in the RHS
// projection (spec §3/§4.8).
type Cluster struct {
	Tuple Tuple
	Rows  []int
}

// Report is the verifier's output (spec §6 "Produced outputs").
type Report struct {
	Holds               bool
	Error               float64
	ViolatingRows       int
	ViolatingClusters   []Cluster
	ViolatingUniqueRows int
}

// Tuple is a projected row, joined with a separator unlikely to appear in
// ordinary tabular values; used as a comparable hash-set key.
type Tuple string

const tupleSep = "\x1f" // unit separator; matches CSV-adjacent tabular data conventions

func projectTuple(row []string, indices []model.ColumnId) Tuple {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = row[idx]
	}
	return Tuple(strings.Join(parts, tupleSep))
}

// Verify checks ind against the two supplied streams: lhs feeds ind.LHSIndices,
// rhs feeds ind.RHSIndices. lhs and rhs may be the same Stream instance
// (spec §4.8 permits verifying an IND against a single table); in that
// case lhs is reset to its beginning after the RHS pass completes.
func Verify(ctx context.Context, cfg Config, lhs, rhs dataset.Stream, ind model.IND) (*Report, error) {
	if len(ind.LHSIndices) != len(ind.RHSIndices) {
		return nil, model.NewConfigError("ind", fmt.Sprintf(
			"lhs/rhs index vectors must have equal length, got %d and %d", len(ind.LHSIndices), len(ind.RHSIndices)))
	}
	if len(ind.LHSIndices) == 0 {
		return nil, model.NewConfigError("ind", "index vectors must be non-empty")
	}
	if err := checkIndices(ind.LHSIndices, lhs.NumberOfColumns(), "lhs"); err != nil {
		return nil, err
	}
	if err := checkIndices(ind.RHSIndices, rhs.NumberOfColumns(), "rhs"); err != nil {
		return nil, err
	}

	rSet, err := buildRHSSet(ctx, rhs, ind.RHSIndices)
	if err != nil {
		return nil, err
	}

	sameStream := lhs == rhs
	if sameStream {
		if err := lhs.Reset(ctx); err != nil {
			return nil, err
		}
	}

	return scanLHS(ctx, lhs, ind.LHSIndices, rSet)
}

func checkIndices(indices []model.ColumnId, numCols int, side string) error {
	for _, idx := range indices {
		if idx < 0 || int(idx) >= numCols {
			return model.NewConfigError(side+"_indices", fmt.Sprintf("index %d out of range for %d columns", idx, numCols))
		}
	}
	return nil
}

func buildRHSSet(ctx context.Context, rhs dataset.Stream, indices []model.ColumnId) (map[Tuple]struct{}, error) {
	set := make(map[Tuple]struct{})
	for {
		has, err := rhs.HasNextRow(ctx)
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		row, err := rhs.GetNextRow(ctx)
		if err != nil {
			return nil, err
		}
		set[projectTuple(row, indices)] = struct{}{}
	}
	return set, nil
}

func scanLHS(ctx context.Context, lhs dataset.Stream, indices []model.ColumnId, rSet map[Tuple]struct{}) (*Report, error) {
	distinctLHS := make(map[Tuple]struct{})
	clusterIndex := make(map[Tuple]int)
	var clusters []Cluster
	violatingRows := 0

	rowId := 0
	for {
		has, err := lhs.HasNextRow(ctx)
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		row, err := lhs.GetNextRow(ctx)
		if err != nil {
			return nil, err
		}

		t := projectTuple(row, indices)
		distinctLHS[t] = struct{}{}

		if _, ok := rSet[t]; !ok {
			violatingRows++
			ci, seen := clusterIndex[t]
			if !seen {
				ci = len(clusters)
				clusterIndex[t] = ci
				clusters = append(clusters, Cluster{Tuple: t})
			}
			clusters[ci].Rows = append(clusters[ci].Rows, rowId)
		}
		rowId++
	}

	errRatio := 0.0
	if len(distinctLHS) > 0 {
		errRatio = float64(len(clusters)) / float64(len(distinctLHS))
	}

	return &Report{
		Holds:               errRatio == 0.0,
		Error:               errRatio,
		ViolatingRows:       violatingRows,
		ViolatingClusters:   clusters,
		ViolatingUniqueRows: len(clusters),
	}, nil
}
