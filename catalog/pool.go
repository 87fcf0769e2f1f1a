package catalog

import "celect/value"

// BatchPool recycles fixed-capacity batches across scan workers,
// adapted from the teacher's arena-backed FixedSizeBufferPool
// (manager/cache/fixed_size_buffer.go): one backing arena sized up
// front, handed out as a free-list of indices instead of allocating a
// fresh batch per chunk.
type BatchPool struct {
	schema   value.Schema
	capacity int

	slots []*value.Batch
	free  chan uint16
}

func NewBatchPool(n int, schema value.Schema, capacity int) *BatchPool {
	slots := make([]*value.Batch, n)
	free := make(chan uint16, n)
	for i := 0; i < n; i++ {
		cols := make([]value.Column, len(schema.Fields))
		for fi, f := range schema.Fields {
			cols[fi] = value.NewColumn(f.Type, capacity)
		}
		slots[i] = &value.Batch{Schema: schema, Columns: cols}
		free <- uint16(i)
	}
	return &BatchPool{schema: schema, capacity: capacity, slots: slots, free: free}
}

// Get blocks until a batch is available, resets it to empty, and
// returns it along with the slot id to pass to Return.
func (p *BatchPool) Get() (*value.Batch, uint16) {
	id := <-p.free
	b := p.slots[id]
	b.N = 0
	b.Selection = nil
	for i := range b.Columns {
		b.Columns[i].Reset()
	}
	return b, id
}

func (p *BatchPool) Return(id uint16) {
	p.free <- id
}
