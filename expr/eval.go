package expr

import (
	"celect/bits"
	"celect/ops"
	"celect/value"
)

// TriState is a Kleene three-valued boolean result over a batch's rows:
// True marks rows evaluating to true, Valid marks rows with a defined
// (non-NULL) result. True is always a subset of Valid.
type TriState struct {
	True  bits.Bitfield
	Valid bits.Bitfield
}

// Eval evaluates e against batch b, restricted to the rows named by
// live (b's current selection, or a dense [0,N) list if none).
func Eval(e *Expr, b *value.Batch, live []uint16) TriState {
	switch e.Kind {
	case KindColRef:
		return evalColRefBool(e, b, live)
	case KindLit:
		return evalLit(e.Lit, live)
	case KindCmp:
		return evalCmp(e, b, live)
	case KindAnd:
		l := Eval(e.Lhs, b, live)
		r := Eval(e.Rhs, b, live)
		return kleeneAnd(l, r)
	case KindOr:
		l := Eval(e.Lhs, b, live)
		r := Eval(e.Rhs, b, live)
		return kleeneOr(l, r)
	case KindNot:
		inner := Eval(e.Inner, b, live)
		return kleeneNot(inner, live)
	default:
		return TriState{}
	}
}

// evalColRefBool treats a bare Bool column reference as a boolean
// predicate: true where the stored value is true and the row is valid.
func evalColRefBool(e *Expr, b *value.Batch, live []uint16) TriState {
	col := &b.Columns[e.ColIndex]
	var ts TriState
	for _, row := range live {
		if !col.IsValid(int(row)) {
			continue
		}
		ts.Valid.Set(int(row))
		if col.Type == value.Bool && col.B[row] == 1 {
			ts.True.Set(int(row))
		}
	}
	return ts
}

// evalLit broadcasts a scalar literal across every live row: NULL
// literals are invalid everywhere, non-NULL Bool literals are valid
// and true/false everywhere.
func evalLit(lit value.Scalar, live []uint16) TriState {
	var ts TriState
	if lit.Null {
		return ts
	}
	for _, row := range live {
		ts.Valid.Set(int(row))
		if lit.Type == value.Bool && lit.B {
			ts.True.Set(int(row))
		}
	}
	return ts
}

func kleeneAnd(l, r TriState) TriState {
	// true AND true = true; false AND anything = false; otherwise NULL.
	falseL := bits.AndNot(l.Valid, l.True)
	falseR := bits.AndNot(r.Valid, r.True)
	var out TriState
	out.True = bits.MergeAND(l.True, r.True)
	isFalse := bits.MergeOR(falseL, falseR)
	out.Valid = bits.MergeOR(out.True, isFalse)
	return out
}

func kleeneOr(l, r TriState) TriState {
	// true OR anything = true; false OR false = false; otherwise NULL.
	var out TriState
	out.True = bits.MergeOR(l.True, r.True)
	falseL := bits.AndNot(l.Valid, l.True)
	falseR := bits.AndNot(r.Valid, r.True)
	isFalse := bits.MergeAND(falseL, falseR)
	out.Valid = bits.MergeOR(out.True, isFalse)
	return out
}

func kleeneNot(inner TriState, live []uint16) TriState {
	var out TriState
	out.Valid = inner.Valid
	for _, row := range live {
		if inner.Valid.Get(int(row)) == 1 && inner.True.Get(int(row)) == 0 {
			out.True.Set(int(row))
		}
	}
	return out
}

// evalCmp evaluates a comparison. If the operand types cannot be
// coerced per spec's rules, every row is NULL regardless of value.
func evalCmp(e *Expr, b *value.Batch, live []uint16) TriState {
	lt := operandType(e.Lhs, b.Schema)
	rt := operandType(e.Rhs, b.Schema)

	class := coerceClass(lt, rt)
	if class == classIncomparable {
		return TriState{}
	}

	var ts TriState
	liveAndDefined := make([]uint16, 0, len(live))
	for _, row := range live {
		if operandDefined(e.Lhs, b, row) && operandDefined(e.Rhs, b, row) {
			liveAndDefined = append(liveAndDefined, row)
			ts.Valid.Set(int(row))
		}
	}

	matched := make([]uint16, len(liveAndDefined))
	var n int
	switch class {
	case classNumeric:
		n = compareNumeric(e, b, liveAndDefined, matched)
	case classUtf8:
		n = compareUtf8(e, b, liveAndDefined, matched)
	case classBool:
		n = compareBool(e, b, liveAndDefined, matched)
	}
	for _, row := range matched[:n] {
		ts.True.Set(int(row))
	}
	return ts
}

func operandType(e *Expr, schema value.Schema) value.Type {
	return StaticType(e, schema)
}

func operandDefined(e *Expr, b *value.Batch, row uint16) bool {
	switch e.Kind {
	case KindColRef:
		return b.Columns[e.ColIndex].IsValid(int(row))
	case KindLit:
		return !e.Lit.Null
	default:
		return true
	}
}

type coerceKind int

const (
	classIncomparable coerceKind = iota
	classNumeric
	classUtf8
	classBool
)

// coerceClass implements spec's comparison coercion table: numeric vs
// numeric widens to Float64, Utf8 vs Utf8 compares byte-wise, Bool vs
// Bool orders false<true, any other pairing is permanently NULL.
func coerceClass(a, b value.Type) coerceKind {
	if a.IsNumeric() && b.IsNumeric() {
		return classNumeric
	}
	if a == value.Utf8 && b == value.Utf8 {
		return classUtf8
	}
	if a == value.Bool && b == value.Bool {
		return classBool
	}
	return classIncomparable
}

func scalarAsFloat64(col *value.Column, e *Expr, row uint16) float64 {
	if e.Kind == KindLit {
		return e.Lit.AsFloat64()
	}
	c := col
	if c.Type == value.Int64 {
		return float64(c.I64[row])
	}
	return c.F64[row]
}

// compareNumeric prefers the ops package's unrolled column-vs-constant
// kernels for the dominant `column OP literal` shape (no widening
// needed, same element type on both sides); column-vs-column or
// widened comparisons fall back to a generic per-row loop.
func compareNumeric(e *Expr, b *value.Batch, idx []uint16, out []uint16) int {
	if n, ok := tryKernelCompare(e, b, idx, out); ok {
		return n
	}

	lhsVals := make([]float64, len(idx))
	var lCol *value.Column
	if e.Lhs.Kind == KindColRef {
		lCol = &b.Columns[e.Lhs.ColIndex]
	}
	for i, row := range idx {
		lhsVals[i] = scalarAsFloat64(lCol, e.Lhs, row)
	}

	rhsConst, rhsIsConst := 0.0, false
	var rCol *value.Column
	if e.Rhs.Kind == KindLit {
		rhsConst = e.Rhs.Lit.AsFloat64()
		rhsIsConst = true
	} else {
		rCol = &b.Columns[e.Rhs.ColIndex]
	}

	filled := 0
	for i, row := range idx {
		rv := rhsConst
		if !rhsIsConst {
			rv = scalarAsFloat64(rCol, e.Rhs, row)
		}
		if compareFloat(e.Op, lhsVals[i], rv) {
			out[filled] = row
			filled++
		}
	}
	return filled
}

// tryKernelCompare handles `ColRef OP Lit` (or the reverse, with the
// op mirrored) when both sides share the same element type, dispatching
// straight into ops.Equal/Greater/Less and friends over idx.
func tryKernelCompare(e *Expr, b *value.Batch, idx []uint16, out []uint16) (int, bool) {
	var col *value.Column
	var lit value.Scalar
	op := e.Op

	switch {
	case e.Lhs.Kind == KindColRef && e.Rhs.Kind == KindLit:
		col = &b.Columns[e.Lhs.ColIndex]
		lit = e.Rhs.Lit
	case e.Lhs.Kind == KindLit && e.Rhs.Kind == KindColRef:
		col = &b.Columns[e.Rhs.ColIndex]
		lit = e.Lhs.Lit
		op = mirror(op)
	default:
		return 0, false
	}
	if lit.Null {
		return 0, false
	}

	switch col.Type {
	case value.Int64:
		if lit.Type != value.Int64 {
			return 0, false
		}
		return runIntKernel(op, col.I64, lit.I64, idx, out), true
	case value.Float64:
		if lit.Type != value.Float64 {
			return 0, false
		}
		return runFloatKernel(op, col.F64, lit.F64, idx, out), true
	default:
		return 0, false
	}
}

// mirror flips a comparison operator for "lit OP col" -> "col OP' lit".
func mirror(op CmpOp) CmpOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	default:
		return op
	}
}

func runIntKernel(op CmpOp, arr []int64, cmp int64, idx, out []uint16) int {
	switch op {
	case OpEq:
		return ops.Equal(arr, cmp, idx, out)
	case OpNe:
		return ops.NotEqual(arr, cmp, idx, out)
	case OpLt:
		return ops.Less(arr, cmp, idx, out)
	case OpLe:
		return ops.LessEqual(arr, cmp, idx, out)
	case OpGt:
		return ops.Greater(arr, cmp, idx, out)
	case OpGe:
		return ops.GreaterEqual(arr, cmp, idx, out)
	default:
		return 0
	}
}

func runFloatKernel(op CmpOp, arr []float64, cmp float64, idx, out []uint16) int {
	switch op {
	case OpEq:
		return ops.Equal(arr, cmp, idx, out)
	case OpNe:
		return ops.NotEqual(arr, cmp, idx, out)
	case OpLt:
		return ops.Less(arr, cmp, idx, out)
	case OpLe:
		return ops.LessEqual(arr, cmp, idx, out)
	case OpGt:
		return ops.Greater(arr, cmp, idx, out)
	case OpGe:
		return ops.GreaterEqual(arr, cmp, idx, out)
	default:
		return 0
	}
}

func compareFloat(op CmpOp, l, r float64) bool {
	switch op {
	case OpEq:
		return l == r
	case OpNe:
		return l != r
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	default:
		return false
	}
}

// compareUtf8 dispatches into ops.StrEqual/StrLess/etc. When the
// literal sits on the left, the comparison is mirrored so the column
// is always the kernel's indexed operand.
func compareUtf8(e *Expr, b *value.Batch, idx []uint16, out []uint16) int {
	var col *value.Column
	var cmp []byte
	op := e.Op

	switch {
	case e.Lhs.Kind == KindColRef:
		col = &b.Columns[e.Lhs.ColIndex]
		cmp = []byte(e.Rhs.Lit.Str)
		if e.Rhs.Kind == KindColRef {
			return compareUtf8ColCol(e, b, idx, out)
		}
	case e.Rhs.Kind == KindColRef:
		col = &b.Columns[e.Rhs.ColIndex]
		cmp = []byte(e.Lhs.Lit.Str)
		op = mirror(op)
	default:
		// literal vs literal; handled by constant folding, but cover it
		// defensively rather than panic.
		filled := 0
		if cmpBytesOp(e.Op, []byte(e.Lhs.Lit.Str), []byte(e.Rhs.Lit.Str)) {
			out = append(out[:0], idx...)
			filled = len(idx)
		}
		return filled
	}

	get := ops.StrGetter(func(i uint16) []byte { return col.Str(int(i)) })
	switch op {
	case OpEq:
		return ops.StrEqual(get, cmp, idx, out)
	case OpNe:
		return ops.StrNotEqual(get, cmp, idx, out)
	case OpLt:
		return ops.StrLess(get, cmp, idx, out)
	case OpLe:
		return ops.StrLessEqual(get, cmp, idx, out)
	case OpGt:
		return ops.StrGreater(get, cmp, idx, out)
	case OpGe:
		return ops.StrGreaterEqual(get, cmp, idx, out)
	default:
		return 0
	}
}

func compareUtf8ColCol(e *Expr, b *value.Batch, idx []uint16, out []uint16) int {
	lCol := &b.Columns[e.Lhs.ColIndex]
	rCol := &b.Columns[e.Rhs.ColIndex]
	filled := 0
	for _, row := range idx {
		if cmpBytesOp(e.Op, lCol.Str(int(row)), rCol.Str(int(row))) {
			out[filled] = row
			filled++
		}
	}
	return filled
}

func cmpBytesOp(op CmpOp, l, r []byte) bool {
	c := compareBytes(l, r)
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func compareBool(e *Expr, b *value.Batch, idx []uint16, out []uint16) int {
	get := func(e *Expr, row uint16) bool {
		if e.Kind == KindLit {
			return e.Lit.B
		}
		return b.Columns[e.ColIndex].B[row] == 1
	}
	filled := 0
	for _, row := range idx {
		l := b2i(get(e.Lhs, row))
		r := b2i(get(e.Rhs, row))
		if compareFloat(e.Op, float64(l), float64(r)) {
			out[filled] = row
			filled++
		}
	}
	return filled
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

