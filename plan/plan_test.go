package plan

import (
	"testing"

	"celect/sql"
	"celect/value"
)

func testSchema(t *testing.T) value.Schema {
	t.Helper()
	s, err := value.NewSchema(
		value.Field{Name: "id", Type: value.Int64},
		value.Field{Name: "name", Type: value.Utf8},
		value.Field{Name: "active", Type: value.Bool},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestBindCanonicalShape(t *testing.T) {
	schema := testSchema(t)
	stmt, err := sql.Parse("SELECT name FROM 'data.csv' WHERE active = true LIMIT 10 OFFSET 2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := Bind(stmt, schema)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if root.Kind != KindLimit {
		t.Fatalf("expected root Limit, got %v", root.Kind)
	}
	if root.Input.Kind != KindOffset {
		t.Fatalf("expected Offset under Limit, got %v", root.Input.Kind)
	}
	if root.Input.Input.Kind != KindProject {
		t.Fatalf("expected Project under Offset, got %v", root.Input.Input.Kind)
	}
	if root.Input.Input.Input.Kind != KindFilter {
		t.Fatalf("expected Filter under Project, got %v", root.Input.Input.Input.Kind)
	}
	if root.Input.Input.Input.Input.Kind != KindScan {
		t.Fatalf("expected Scan at the bottom, got %v", root.Input.Input.Input.Input.Kind)
	}
}

func TestBindSelectStarElidesProject(t *testing.T) {
	schema := testSchema(t)
	stmt, err := sql.Parse("SELECT * FROM data")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := Bind(stmt, schema)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if root.Kind != KindScan {
		t.Fatalf("expected identity projection to elide Project, got %v", root.Kind)
	}
}

func TestBindUnknownColumnErrors(t *testing.T) {
	schema := testSchema(t)
	stmt, err := sql.Parse("SELECT missing FROM data")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Bind(stmt, schema); err == nil {
		t.Fatal("expected an unknown-column planning error")
	}
}

func TestBindCountStar(t *testing.T) {
	schema := testSchema(t)
	stmt, err := sql.Parse("SELECT COUNT(*) FROM data WHERE id > 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := Bind(stmt, schema)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if root.Kind != KindCount {
		t.Fatalf("expected Count root, got %v", root.Kind)
	}
	if root.Input.Kind != KindFilter {
		t.Fatalf("expected Filter under Count, got %v", root.Input.Kind)
	}
}
