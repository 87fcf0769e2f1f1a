package optimize

import (
	"testing"

	"celect/plan"
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

func bind(t *testing.T, query string, schema value.Schema) *plan.Node {
	t.Helper()
	stmt, err := sql.Parse(query)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := plan.Bind(stmt, schema)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return root
}

func TestProjectionPushdownNarrowsScan(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data WHERE active = true", schema)
	root = Optimize(root)

	scan := findScanForTest(root)
	if len(scan.Projection) != 2 {
		t.Fatalf("expected 2 required columns (name, active), got %v", scan.Projection)
	}
}

func TestConstantFoldDropsTrueFilter(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data WHERE 1 = 1", schema)
	root = Optimize(root)
	if hasFilter(root) {
		t.Fatalf("expected trivially-true WHERE to drop the Filter node")
	}
}

func TestConstantFoldEmptiesScanOnFalseFilter(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data WHERE 1 = 2", schema)
	root = Optimize(root)
	scan := findScanForTest(root)
	if !scan.Empty {
		t.Fatalf("expected trivially-false WHERE to mark Scan empty")
	}
}

func TestLimitPushdownSetsScanBound(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data LIMIT 5", schema)
	root = Optimize(root)
	scan := findScanForTest(root)
	if scan.PushedLimit == nil || *scan.PushedLimit != 5 {
		t.Fatalf("expected pushed limit 5, got %v", scan.PushedLimit)
	}
}

func TestOffsetLimitPushdownAddsBounds(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data LIMIT 5 OFFSET 3", schema)
	root = Optimize(root)
	scan := findScanForTest(root)
	if scan.PushedLimit == nil || *scan.PushedLimit != 8 {
		t.Fatalf("expected pushed limit 8 (offset+limit), got %v", scan.PushedLimit)
	}
}

func TestDeadCodeDropsZeroOffset(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT name FROM data OFFSET 0", schema)
	root = Optimize(root)
	if root.Kind == plan.KindOffset {
		t.Fatalf("expected OFFSET 0 to be eliminated")
	}
}

func TestStarSelectKeepsAllColumnsAfterIdentityProjectionElided(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT * FROM data", schema)
	root = Optimize(root)

	scan := findScanForTest(root)
	if len(scan.Projection) != 3 {
		t.Fatalf("expected all 3 columns kept for SELECT *, got %v", scan.Projection)
	}
	if root.OutputSchema.Len() != 3 {
		t.Fatalf("expected root output schema to have 3 columns, got %d", root.OutputSchema.Len())
	}
}

func TestStarSelectWithFilterStillKeepsAllColumns(t *testing.T) {
	schema := testSchema(t)
	root := bind(t, "SELECT * FROM data WHERE active = true", schema)
	root = Optimize(root)

	scan := findScanForTest(root)
	if len(scan.Projection) != 3 {
		t.Fatalf("expected all 3 columns kept for SELECT * with a WHERE clause, got %v", scan.Projection)
	}
	if root.OutputSchema.Len() != 3 {
		t.Fatalf("expected root output schema to have 3 columns, got %d", root.OutputSchema.Len())
	}
}

func findScanForTest(n *plan.Node) *plan.Node {
	for n.Kind != plan.KindScan {
		n = n.Input
	}
	return n
}

func hasFilter(n *plan.Node) bool {
	for n != nil {
		if n.Kind == plan.KindFilter {
			return true
		}
		n = n.Input
	}
	return false
}
