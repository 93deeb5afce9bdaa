package ingest

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/domain"
	"github.com/indspider/indspider/model"
)

// maxBytesPerChar mirrors domain.maxBytesPerChar; duplicated here (rather
// than exported from domain) because it is a property of the governor's
// initial block-count estimate, not of the partition's own memory estimate,
// even though the two happen to share a value (spec §4.1/§4.4).
const maxBytesPerChar = 16.0

const (
	minMemLimitMB       = 16
	defaultBlockCapCeil = 1 << 21 // 2^21, spec §4.4 hard ceiling
)

// Config is the discovery-side configuration surface (spec §6).
type Config struct {
	MemLimitMB  int
	ThreadsNum  int
	TmpRoot     string // parent directory for this run's tmp/ namespace; defaults to "tmp" if empty
}

// Validate enforces the configuration surface's bounds, surfaced as a
// *model.ConfigError before a run begins (spec §7 "Configuration").
func (c Config) Validate() error {
	if c.MemLimitMB < minMemLimitMB {
		return model.NewConfigError("mem_limit_mb", fmt.Sprintf("must be >= %d, got %d", minMemLimitMB, c.MemLimitMB))
	}
	if c.ThreadsNum < 1 {
		return model.NewConfigError("threads_num", fmt.Sprintf("must be >= 1, got %d", c.ThreadsNum))
	}
	return nil
}

// memLimitBytes returns mem_limit_mb converted to bytes.
func (c Config) memLimitBytes() int64 {
	return int64(c.MemLimitMB) * (1 << 20)
}

// blockCapacity derives block_capacity = min(2^21, largest power of two <=
// mem_limit/32) per spec §4.4.
func (c Config) blockCapacity() int {
	limit := c.memLimitBytes() / 32
	capacity := 1
	for capacity*2 <= int(limit) && capacity*2 <= defaultBlockCapCeil {
		capacity *= 2
	}
	if capacity > defaultBlockCapCeil {
		capacity = defaultBlockCapCeil
	}
	return capacity
}

// DomainManager is the memory governor (C4): it ingests blocks across all
// input tables, appends values to per-column tail partitions, decides when
// to swap partitions to disk, and produces the final vector of
// domain.ColumnDomains in production order (spec §4.4).
type DomainManager struct {
	cfg      Config
	tmpDir   string
	domains  []*domain.ColumnDomain
	swapCand int // index of next finalized domain eligible for spill
}

// NewDomainManager validates cfg and creates a run-scoped tmp/ directory
// under cfg.TmpRoot, namespaced by a random UUID rather than PID, so
// short-lived concurrent processes never collide on a reused PID (spec §5,
// §9 "Global state").
func NewDomainManager(cfg Config) (*DomainManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := cfg.TmpRoot
	if root == "" {
		root = "tmp"
	}
	tmpDir := filepath.Join(root, uuid.NewString())
	return &DomainManager{cfg: cfg, tmpDir: tmpDir}, nil
}

// Close removes every domain still tracked by the manager, cleaning up any
// swap files left on disk, and removes the run's tmp/ namespace directory.
func (m *DomainManager) Close() error {
	var firstErr error
	for _, d := range m.domains {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = os.RemoveAll(m.tmpDir)
	return firstErr
}

// tableState tracks one table's in-progress ingest: a mutable tail
// partition per column, plus the full partition list built so far.
type tableState struct {
	tableId    model.TableId
	numCols    int
	partitions [][]*domain.Partition // partitions[col] = list so far, tail is mutable
	nextPartID []model.PartitionId
}

func newTableState(table model.TableId, numCols int) *tableState {
	return &tableState{
		tableId:    table,
		numCols:    numCols,
		partitions: make([][]*domain.Partition, numCols),
		nextPartID: make([]model.PartitionId, numCols),
	}
}

func (m *DomainManager) tailMemUsage(ts *tableState) float64 {
	var total float64
	for col := 0; col < ts.numCols; col++ {
		tail := ts.partitions[col][len(ts.partitions[col])-1]
		total += tail.MemoryUsage()
	}
	return total
}

func (m *DomainManager) finalizedMemUsage() float64 {
	var total float64
	for i, d := range m.domains {
		if i < m.swapCand {
			continue // already spilled, counted as 0 by MemoryUsage anyway
		}
		total += d.MemoryUsage()
	}
	return total
}

// swapNext implements the SwapNext policy of spec §4.4: spill a finalized
// domain first if any remain as candidates; otherwise spill every current
// table's tail partitions and start a fresh one per column.
func (m *DomainManager) swapNext(ts *tableState, processedBlocks *int) error {
	if m.swapCand < len(m.domains) {
		if err := m.domains[m.swapCand].Swap(); err != nil {
			return err
		}
		m.swapCand++
		return nil
	}

	for col := 0; col < ts.numCols; col++ {
		tail := ts.partitions[col][len(ts.partitions[col])-1]
		spilled, err := tail.TrySwap()
		if err != nil {
			return err
		}
		if spilled {
			ts.nextPartID[col]++
			fresh := domain.NewPartition(ts.tableId, model.ColumnId(col), ts.nextPartID[col], m.tmpDir)
			ts.partitions[col] = append(ts.partitions[col], fresh)
		}
	}
	*processedBlocks = 0
	return nil
}

// IngestTable runs the ingest loop of spec §4.4 over one input table,
// appending its finalized ColumnDomains (one per column) to m.domains.
func (m *DomainManager) IngestTable(ctx context.Context, table model.TableId, stream dataset.Stream) error {
	numCols := stream.NumberOfColumns()
	ts := newTableState(table, numCols)
	for col := 0; col < numCols; col++ {
		p := domain.NewPartition(table, model.ColumnId(col), 0, m.tmpDir)
		ts.partitions[col] = []*domain.Partition{p}
	}

	blockCap := m.cfg.blockCapacity()
	bs := NewBlockDatasetStream(stream, blockCap)

	processedBlocks := 0
	memLimit := float64(m.cfg.memLimitBytes())

	// blockCountEstimate implements spec §4.4.b's two-branch formula: the
	// conservative initial estimate before any block has been accounted
	// for since the last reset, or the usage-extrapolated estimate once at
	// least one block has been processed.
	blockCountEstimate := func() int {
		if processedBlocks == 0 {
			return int(math.Max(1, memLimit/(maxBytesPerChar*float64(blockCap))))
		}
		memUsage := m.tailMemUsage(ts) + m.finalizedMemUsage()
		perBlock := memUsage / float64(processedBlocks)
		if perBlock <= 0 {
			return 1
		}
		return int((memLimit - memUsage) / perBlock)
	}

	for {
		blockCount := blockCountEstimate()
		for blockCount <= 0 {
			if err := m.swapNext(ts, &processedBlocks); err != nil {
				return err
			}
			blockCount = blockCountEstimate()
		}

		drained := false
		for i := 0; i < blockCount; i++ {
			block, ok, err := bs.GetNextBlock(ctx)
			if err != nil {
				return err
			}
			if !ok {
				drained = true
				break
			}

			err = parallelForEach(numCols, m.cfg.ThreadsNum, func(col int) error {
				tail := ts.partitions[col][len(ts.partitions[col])-1]
				for _, v := range block.Columns[col] {
					tail.Insert(v)
				}
				return nil
			})
			if err != nil {
				return err
			}
			processedBlocks++
		}

		if drained {
			break
		}
	}

	for col := 0; col < numCols; col++ {
		tail := ts.partitions[col][len(ts.partitions[col])-1]
		if tail.Len() == 0 {
			if len(ts.partitions[col]) > 1 {
				// drop a trailing empty tail but keep the earlier, non-empty
				// spilled partitions (spec §4.4 step 3)
				ts.partitions[col] = ts.partitions[col][:len(ts.partitions[col])-1]
			} else {
				// the only partition this column ever had is empty: the
				// column had no non-empty values, so it gets no domain and
				// no attribute.
				ts.partitions[col] = nil
			}
		}
		if len(ts.partitions[col]) == 0 {
			continue
		}
		m.domains = append(m.domains, domain.NewColumnDomain(ts.partitions[col]))
	}
	return nil
}

// Domains returns the finalized ColumnDomains in production order, which
// defines the dense 0-based attribute numbering (spec §3 global invariant).
func (m *DomainManager) Domains() []*domain.ColumnDomain {
	return m.domains
}
