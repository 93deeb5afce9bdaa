package domain

// ColumnDomain is an ordered list (by PartitionId) of partitions for one
// (table, column). Its logical value set is the union over partitions;
// the same value may appear in more than one partition (spec §3). Neither
// ColumnDomain nor its merge iterator collapses such duplicates; the
// iterator yields each copy.
type ColumnDomain struct {
	Partitions []*Partition
}

// NewColumnDomain builds a ColumnDomain from a non-empty partition list,
// in PartitionId order.
func NewColumnDomain(partitions []*Partition) *ColumnDomain {
	if len(partitions) == 0 {
		panic("domain: ColumnDomain requires a non-empty partition list")
	}
	return &ColumnDomain{Partitions: partitions}
}

// Table returns the table id shared by every partition in the domain.
func (d *ColumnDomain) Table() int {
	return int(d.Partitions[0].TableId)
}

// Column returns the column id shared by every partition in the domain.
func (d *ColumnDomain) Column() int {
	return int(d.Partitions[0].ColumnId)
}

// Swap attempts to spill every still memory-resident partition; idempotent.
func (d *ColumnDomain) Swap() error {
	for _, p := range d.Partitions {
		if _, err := p.TrySwap(); err != nil {
			return err
		}
	}
	return nil
}

// MemoryUsage sums the memory estimate of every partition in the domain.
func (d *ColumnDomain) MemoryUsage() float64 {
	var total float64
	for _, p := range d.Partitions {
		total += p.MemoryUsage()
	}
	return total
}

// Close releases every partition's swap file.
func (d *ColumnDomain) Close() error {
	var firstErr error
	for _, p := range d.Partitions {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Iterator opens a fresh ColumnDomainIterator merging all partitions.
func (d *ColumnDomain) Iterator() (*ColumnDomainIterator, error) {
	return newColumnDomainIterator(d.Partitions)
}
