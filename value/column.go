package value

import "celect/bits"

// Column is a single typed, append-only columnar vector of length N,
// paired with a validity bitmap (1 = present, 0 = NULL). Dense storage
// is chosen by Type: Int64/Float64 use contiguous numeric slices, Bool
// uses a byte-per-row array (0/1, so the ops package's numeric kernels
// apply directly to it), and Utf8 uses an offsets+bytes pair so string
// data for a whole batch lives in one contiguous buffer.
type Column struct {
	Type     Type
	Validity bits.Bitfield
	N        int

	I64 []int64
	F64 []float64
	B   []int8

	StrOffsets []uint32 // len N+1
	StrBytes   []byte
}

// NewColumn allocates an empty column of the given type and capacity.
func NewColumn(t Type, capacity int) Column {
	c := Column{Type: t}
	switch t {
	case Int64:
		c.I64 = make([]int64, 0, capacity)
	case Float64:
		c.F64 = make([]float64, 0, capacity)
	case Bool:
		c.B = make([]int8, 0, capacity)
	case Utf8:
		c.StrOffsets = make([]uint32, 1, capacity+1)
		c.StrOffsets[0] = 0
		c.StrBytes = make([]byte, 0, capacity*8)
	}
	return c
}

// IsValid reports whether row i carries a non-NULL value.
func (c *Column) IsValid(i int) bool { return c.Validity.Get(i) == 1 }

// Reset truncates c back to zero rows, keeping its backing storage so
// a pooled column (catalog.BatchPool) can be reused without
// reallocating its slices.
func (c *Column) Reset() {
	c.Validity = bits.Bitfield{}
	c.N = 0
	switch c.Type {
	case Int64:
		c.I64 = c.I64[:0]
	case Float64:
		c.F64 = c.F64[:0]
	case Bool:
		c.B = c.B[:0]
	case Utf8:
		c.StrOffsets = c.StrOffsets[:1]
		c.StrBytes = c.StrBytes[:0]
	}
}

// Str returns the raw bytes backing row i of a Utf8 column. Undefined
// for other column types or NULL rows.
func (c *Column) Str(i int) []byte {
	return c.StrBytes[c.StrOffsets[i]:c.StrOffsets[i+1]]
}

// AppendInt64 appends a present Int64 value.
func (c *Column) AppendInt64(v int64) {
	c.Validity.Set(c.N)
	c.I64 = append(c.I64, v)
	c.N++
}

// AppendFloat64 appends a present Float64 value.
func (c *Column) AppendFloat64(v float64) {
	c.Validity.Set(c.N)
	c.F64 = append(c.F64, v)
	c.N++
}

// AppendBool appends a present Bool value.
func (c *Column) AppendBool(v bool) {
	c.Validity.Set(c.N)
	if v {
		c.B = append(c.B, 1)
	} else {
		c.B = append(c.B, 0)
	}
	c.N++
}

// AppendStr appends a present Utf8 value.
func (c *Column) AppendStr(v []byte) {
	c.Validity.Set(c.N)
	c.StrBytes = append(c.StrBytes, v...)
	c.StrOffsets = append(c.StrOffsets, uint32(len(c.StrBytes)))
	c.N++
}

// AppendNull appends a NULL cell; dense storage still grows by one
// element (zero value) so every column keeps N entries in lockstep.
func (c *Column) AppendNull() {
	switch c.Type {
	case Int64:
		c.I64 = append(c.I64, 0)
	case Float64:
		c.F64 = append(c.F64, 0)
	case Bool:
		c.B = append(c.B, 0)
	case Utf8:
		c.StrOffsets = append(c.StrOffsets, c.StrOffsets[len(c.StrOffsets)-1])
	}
	c.N++
}
