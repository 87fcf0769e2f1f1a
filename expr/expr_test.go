package expr

import (
	"testing"

	"celect/value"
)

func buildBatch(t *testing.T) *value.Batch {
	t.Helper()
	schema, err := value.NewSchema(
		value.Field{Name: "age", Type: value.Int64},
		value.Field{Name: "active", Type: value.Bool},
		value.Field{Name: "name", Type: value.Utf8},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	ageCol := value.NewColumn(value.Int64, 4)
	activeCol := value.NewColumn(value.Bool, 4)
	nameCol := value.NewColumn(value.Utf8, 4)

	ages := []int64{20, 30, 40}
	actives := []bool{false, true, true}
	names := []string{"Alice", "Bob", "Charlie"}
	for i := range ages {
		ageCol.AppendInt64(ages[i])
		activeCol.AppendBool(actives[i])
		nameCol.AppendStr([]byte(names[i]))
	}
	// a NULL row
	ageCol.AppendNull()
	activeCol.AppendNull()
	nameCol.AppendStr([]byte("Dana"))

	return &value.Batch{
		Schema:  schema,
		Columns: []value.Column{ageCol, activeCol, nameCol},
		N:       4,
	}
}

func liveRows(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(i)
	}
	return out
}

func TestCmpGreaterThan(t *testing.T) {
	b := buildBatch(t)
	e := Cmp(OpGt, ColRef(0), Lit(value.Int64Scalar(25)))
	ts := Eval(e, b, liveRows(b.N))

	want := map[int]bool{0: false, 1: true, 2: true}
	for row, w := range want {
		if got := ts.True.Get(row) == 1; got != w {
			t.Errorf("row %d: got %v want %v", row, got, w)
		}
	}
	if ts.Valid.Get(3) == 1 {
		t.Errorf("row 3 (NULL age) should be invalid")
	}
}

func TestAndKleeneFalseDominates(t *testing.T) {
	b := buildBatch(t)
	// active = true AND age > 1000 (false) -> false even where active is NULL-adjacent
	e := And(
		Cmp(OpEq, ColRef(1), Lit(value.BoolScalar(true))),
		Cmp(OpGt, ColRef(0), Lit(value.Int64Scalar(1000))),
	)
	ts := Eval(e, b, liveRows(b.N))
	for row := 0; row < b.N; row++ {
		if ts.True.Get(row) == 1 {
			t.Errorf("row %d: expected false, got true", row)
		}
	}
}

func TestOrKleeneTrueDominates(t *testing.T) {
	b := buildBatch(t)
	// name = 'Bob' OR age > 1000 (false) -> true only for Bob's row
	e := Or(
		Cmp(OpEq, ColRef(2), Lit(value.StrScalar("Bob"))),
		Cmp(OpGt, ColRef(0), Lit(value.Int64Scalar(1000))),
	)
	ts := Eval(e, b, liveRows(b.N))
	if ts.True.Get(1) != 1 {
		t.Errorf("expected Bob's row to be true")
	}
	if ts.True.Get(0) == 1 {
		t.Errorf("expected Alice's row to be false")
	}
}

func TestIncomparableTypesYieldNull(t *testing.T) {
	b := buildBatch(t)
	e := Cmp(OpEq, ColRef(0), Lit(value.StrScalar("20"))) // Int64 vs Utf8
	ts := Eval(e, b, liveRows(b.N))
	if ts.Valid.Any() {
		t.Errorf("expected every row NULL for an incomparable type pair")
	}
}

func TestFoldConstantAndShortCircuits(t *testing.T) {
	e := And(Lit(value.BoolScalar(false)), ColRef(0))
	folded := Fold(e)
	if folded.Kind != KindLit || folded.Lit.Null || folded.Lit.B {
		t.Fatalf("expected fold to constant false, got %+v", folded)
	}
}

func TestFoldPureLiteralCmp(t *testing.T) {
	e := Cmp(OpEq, Lit(value.Int64Scalar(1)), Lit(value.Int64Scalar(1)))
	folded := Fold(e)
	if folded.Kind != KindLit || !folded.Lit.B {
		t.Fatalf("expected fold to constant true, got %+v", folded)
	}
}

func TestNotNullIsNull(t *testing.T) {
	b := buildBatch(t)
	e := Not(Cmp(OpEq, ColRef(1), Lit(value.BoolScalar(true))))
	ts := Eval(e, b, liveRows(b.N))
	if ts.Valid.Get(3) == 1 {
		t.Errorf("NOT NULL should stay invalid")
	}
}

func TestStrComparisonColumnVsLiteral(t *testing.T) {
	b := buildBatch(t)
	e := Cmp(OpLt, ColRef(2), Lit(value.StrScalar("Bob")))
	ts := Eval(e, b, liveRows(b.N))
	if ts.True.Get(0) != 1 { // "Alice" < "Bob"
		t.Errorf("expected Alice < Bob")
	}
	if ts.True.Get(1) == 1 { // "Bob" < "Bob" is false
		t.Errorf("expected Bob not < Bob")
	}
}
