package csv

import (
	"os"
	"path/filepath"
	"testing"

	"celect/config"
	"celect/value"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestFindRecordBoundarySkipsQuotedNewline(t *testing.T) {
	data := []byte("a,'b\nc',d\ne,f,g\n")
	end := FindRecordBoundary(data, 0)
	if string(data[:end]) != "a,'b\nc',d\n" {
		t.Fatalf("boundary landed mid record: %q", data[:end])
	}
}

func TestTokenizerUnquotesFields(t *testing.T) {
	data := []byte("1,'hello, world',3\n")
	tok := NewTokenizer(data, 0, len(data))
	fields, ok := tok.Next()
	if !ok {
		t.Fatal("expected a record")
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %v", len(fields), fields)
	}
	if string(fields[1]) != "hello, world" {
		t.Fatalf("unexpected unquoted field: %q", fields[1])
	}
}

func TestClassifyWidening(t *testing.T) {
	cases := []struct {
		tok  string
		want value.Type
	}{
		{"42", value.Int64},
		{"-7", value.Int64},
		{"3.14", value.Float64},
		{"true", value.Bool},
		{"False", value.Bool},
		{"", value.Null},
		{"hello", value.Utf8},
	}
	for _, c := range cases {
		if got := classify([]byte(c.tok)); got != c.want {
			t.Errorf("classify(%q) = %s, want %s", c.tok, got, c.want)
		}
	}
}

func TestInferSchemaWidensAcrossRows(t *testing.T) {
	path := writeTemp(t, "id,score,name\n1,3,Alice\n2,4.5,Bob\n3,,Charlie\n")
	schema, err := InferSchema(path, 1024)
	if err != nil {
		t.Fatalf("InferSchema: %v", err)
	}
	if schema.Fields[0].Type != value.Int64 {
		t.Errorf("id: want Int64, got %s", schema.Fields[0].Type)
	}
	if schema.Fields[1].Type != value.Float64 {
		t.Errorf("score: want Float64 (widened by row 2), got %s", schema.Fields[1].Type)
	}
	if schema.Fields[2].Type != value.Utf8 {
		t.Errorf("name: want Utf8, got %s", schema.Fields[2].Type)
	}
}

func TestScanEmitsAllRows(t *testing.T) {
	path := writeTemp(t, "id,name\n1,Alice\n2,Bob\n3,Charlie\n4,Dana\n")
	schema, err := InferSchema(path, 1024)
	if err != nil {
		t.Fatalf("InferSchema: %v", err)
	}

	cfg := config.Default(config.WithParallelism(2), config.WithBatchSize(2))
	scanner := NewScanner(cfg, path, schema)

	total := 0
	_, err = scanner.Scan(func(b *value.Batch) error {
		total += b.N
		return nil
	}, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 rows across batches, got %d", total)
	}
}

func TestScanDropsAndCountsMalformedRows(t *testing.T) {
	path := writeTemp(t, "id,name,age\n1,Alice,30\n2,Bob\n3,Charlie,35,extra\n4,Dana,40\n")
	schema, err := InferSchema(path, 1024)
	if err != nil {
		t.Fatalf("InferSchema: %v", err)
	}

	cfg := config.Default(config.WithParallelism(1), config.WithBatchSize(4096))
	scanner := NewScanner(cfg, path, schema)

	rows := 0
	malformed, err := scanner.Scan(func(b *value.Batch) error {
		rows += b.N
		return nil
	}, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 well-formed rows, got %d", rows)
	}
	if malformed != 2 {
		t.Fatalf("expected 2 malformed rows counted, got %d", malformed)
	}
}

func TestScanRespectsQuotedNewlineAcrossChunks(t *testing.T) {
	// A quoted newline near a naive chunk boundary must not split the record.
	path := writeTemp(t, "id,note\n1,'line one\nline two'\n2,plain\n")
	schema, err := InferSchema(path, 1024)
	if err != nil {
		t.Fatalf("InferSchema: %v", err)
	}

	cfg := config.Default(config.WithParallelism(4), config.WithBatchSize(4096))
	scanner := NewScanner(cfg, path, schema)

	rows := 0
	_, err = scanner.Scan(func(b *value.Batch) error {
		rows += b.N
		return nil
	}, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 records, got %d", rows)
	}
}
