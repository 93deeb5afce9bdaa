// Package ingest implements the memory-bounded, disk-spilling column
// domain builder: BlockDatasetStream (C3) amortizes ingest and memory
// accounting over byte-bounded row blocks, and DomainManager (C4) governs
// memory usage while turning those blocks into a vector of domain.ColumnDomains.
package ingest

import (
	"context"
	"io"
	"log/slog"

	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/model"
)

// Block is a column-major slice of rows read from one DatasetStream: one
// []string per column, all the same length.
type Block struct {
	Columns [][]string
}

// NumRows reports how many rows the block holds.
func (b *Block) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return len(b.Columns[0])
}

// BlockDatasetStream adapts a dataset.Stream into a sequence of
// byte-bounded blocks (spec §4.3). Capacity bounds the sum of cell byte
// lengths per block; the stop rule guarantees forward progress even when
// a single row alone exceeds capacity: a block is never left empty.
type BlockDatasetStream struct {
	stream   dataset.Stream
	capacity int
	numCols  int

	// pending holds one row already read from stream but not yet placed
	// into a block, because it would have exceeded the previous block's
	// capacity. dataset.Stream has no pushback, so BlockDatasetStream does
	// its own one-row lookahead buffering instead.
	pending []string

	// rowIndex counts rows read from stream so far (including skipped
	// ones), for ShapeError.RowIndex.
	rowIndex int
}

// NewBlockDatasetStream wraps stream, reading rows no faster than capacity
// bytes per returned block.
func NewBlockDatasetStream(stream dataset.Stream, capacity int) *BlockDatasetStream {
	return &BlockDatasetStream{stream: stream, capacity: capacity, numCols: stream.NumberOfColumns()}
}

// readRow returns the next shape-valid row, skipping (and logging) any of
// the wrong width, or (nil, false, nil) once the stream is drained.
func (b *BlockDatasetStream) readRow(ctx context.Context) ([]string, bool, error) {
	if b.pending != nil {
		row := b.pending
		b.pending = nil
		return row, true, nil
	}
	for {
		has, err := b.stream.HasNextRow(ctx)
		if err != nil {
			return nil, false, err
		}
		if !has {
			return nil, false, nil
		}
		row, err := b.stream.GetNextRow(ctx)
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		idx := b.rowIndex
		b.rowIndex++
		if len(row) != b.numCols {
			shapeErr := model.NewShapeError(idx, b.numCols, len(row))
			slog.Warn("row width mismatch, row skipped", "error", shapeErr)
			continue
		}
		return row, true, nil
	}
}

// GetNextBlock reads rows until adding the next one would exceed capacity,
// always including at least one row (spec §4.3). It returns (nil, false,
// nil) once the underlying stream is drained with nothing left to deliver.
func (b *BlockDatasetStream) GetNextBlock(ctx context.Context) (*Block, bool, error) {
	columns := make([][]string, b.numCols)
	size := 0
	rows := 0

	for {
		row, ok, err := b.readRow(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}

		rowSize := 0
		for _, cell := range row {
			rowSize += len(cell)
		}

		if rows > 0 && size+rowSize > b.capacity {
			b.pending = row
			break
		}

		for i, cell := range row {
			columns[i] = append(columns[i], cell)
		}
		size += rowSize
		rows++
	}

	if rows == 0 {
		return nil, false, nil
	}
	return &Block{Columns: columns}, true, nil
}
