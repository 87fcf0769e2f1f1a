package value

import (
	"testing"

	"celect/compression"
)

func buildTestBatch(t *testing.T) *Batch {
	t.Helper()

	schema, err := NewSchema(
		Field{Name: "id", Type: Int64},
		Field{Name: "name", Type: Utf8},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	idCol := NewColumn(Int64, 4)
	nameCol := NewColumn(Utf8, 4)

	for i, name := range []string{"Alice", "Bob", "Charlie"} {
		idCol.AppendInt64(int64(i + 1))
		nameCol.AppendStr([]byte(name))
	}

	return &Batch{Schema: schema, Columns: []Column{idCol, nameCol}, N: 3}
}

func TestBatchLiveLenNoSelection(t *testing.T) {
	b := buildTestBatch(t)
	if b.LiveLen() != 3 {
		t.Fatalf("expected live len 3, got %d", b.LiveLen())
	}
}

func TestBatchWithSelection(t *testing.T) {
	b := buildTestBatch(t)
	sel := b.WithSelection([]uint16{0, 2})
	if sel.LiveLen() != 2 {
		t.Fatalf("expected live len 2, got %d", sel.LiveLen())
	}
	if b.LiveLen() != 3 {
		t.Fatalf("original batch mutated: live len %d", b.LiveLen())
	}
}

func TestBatchProjectIsByReference(t *testing.T) {
	b := buildTestBatch(t)
	proj := b.Project([]int{1})
	if proj.Schema.Fields[0].Name != "name" {
		t.Fatalf("unexpected projected schema: %+v", proj.Schema)
	}
	if &proj.Columns[0] == &b.Columns[1] {
		t.Fatalf("expected column header copy, not same slot")
	}
	if string(proj.Columns[0].Str(0)) != "Alice" {
		t.Fatalf("projected column diverged from source storage")
	}
}

func TestGatherToOwnedCompacts(t *testing.T) {
	b := buildTestBatch(t)
	view := b.WithSelection([]uint16{0, 2})
	owned := view.GatherToOwned()

	if owned.N != 2 {
		t.Fatalf("expected 2 rows, got %d", owned.N)
	}
	if string(owned.Columns[1].Str(0)) != "Alice" || string(owned.Columns[1].Str(1)) != "Charlie" {
		t.Fatalf("unexpected gathered names: %s, %s", owned.Columns[1].Str(0), owned.Columns[1].Str(1))
	}
}

func TestColumnValidityAndNull(t *testing.T) {
	c := NewColumn(Int64, 2)
	c.AppendInt64(42)
	c.AppendNull()

	if !c.IsValid(0) {
		t.Fatalf("row 0 should be valid")
	}
	if c.IsValid(1) {
		t.Fatalf("row 1 should be NULL")
	}
}

func TestColumnStructIsWellAligned(t *testing.T) {
	report := compression.GetWellAlignedStructReport(Column{})
	if report.WastedBytes > 8 {
		t.Errorf("Column struct wastes %d bytes of padding, consider reordering fields", report.WastedBytes)
	}
}
