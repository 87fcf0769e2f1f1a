package value

// Batch is an ordered tuple of column vectors sharing a logical length
// N, plus an optional selection vector naming the currently "live" row
// indices. A nil Selection means all N rows are live. Batches are never
// physically compacted by with_selection/live_len; GatherToOwned is the
// one place that materializes a compact copy, for the sink.
type Batch struct {
	Schema    Schema
	Columns   []Column
	N         int
	Selection []uint16
}

// WithSelection returns a shallow view of b with a new selection vector;
// the underlying columns are not copied.
func (b *Batch) WithSelection(sel []uint16) *Batch {
	nb := *b
	nb.Selection = sel
	return &nb
}

// LiveLen returns |Selection| if present, else N.
func (b *Batch) LiveLen() int {
	if b.Selection == nil {
		return b.N
	}
	return len(b.Selection)
}

// Project returns a view exposing only the named column indices, in
// order. Columns are referenced, not copied; the selection vector
// passes through unchanged, per the Project operator's contract.
func (b *Batch) Project(indices []int) *Batch {
	cols := make([]Column, len(indices))
	for i, idx := range indices {
		cols[i] = b.Columns[idx]
	}
	return &Batch{
		Schema:    b.Schema.Project(indices),
		Columns:   cols,
		N:         b.N,
		Selection: b.Selection,
	}
}

// GatherToOwned materializes a compact batch containing only the live
// rows, renumbering the validity bitmap accordingly. Used only at the
// sink/output boundary — the rest of the pipeline works on views. It
// always copies, even with no Selection, so a caller can safely return
// its source batch to a pool (catalog.BatchPool) immediately after.
func (b *Batch) GatherToOwned() *Batch {
	live := b.SelectionOrAll()
	out := &Batch{Schema: b.Schema, N: len(live)}
	out.Columns = make([]Column, len(b.Columns))

	for ci, col := range b.Columns {
		nc := NewColumn(col.Type, len(live))
		for _, row := range live {
			if !col.IsValid(int(row)) {
				nc.AppendNull()
				continue
			}
			switch col.Type {
			case Int64:
				nc.AppendInt64(col.I64[row])
			case Float64:
				nc.AppendFloat64(col.F64[row])
			case Bool:
				nc.AppendBool(col.B[row] == 1)
			case Utf8:
				nc.AppendStr(col.Str(int(row)))
			}
		}
		out.Columns[ci] = nc
	}

	return out
}

// SelectionOrAll returns b.Selection if set, else a freshly built dense
// [0, N) index list — used where downstream code wants a concrete list
// regardless of whether a selection vector has been materialized yet.
func (b *Batch) SelectionOrAll() []uint16 {
	if b.Selection != nil {
		return b.Selection
	}
	out := make([]uint16, b.N)
	for i := range out {
		out[i] = uint16(i)
	}
	return out
}
