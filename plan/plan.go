// Package plan builds the logical plan tree (C4) from a parsed AST and
// resolves column references against a scan's inferred schema. Kept as
// a tagged-variant node type rather than a node-per-type interface
// hierarchy, mirroring expr.Expr and the teacher's FieldType dispatch
// style.
package plan

import (
	"celect/expr"
	"celect/value"
)

type Kind uint8

const (
	KindScan Kind = iota
	KindFilter
	KindProject
	KindLimit
	KindOffset
	KindCount
)

// AggKind distinguishes COUNT(*) from COUNT(column).
type AggKind uint8

const (
	CountStar AggKind = iota
	CountColumn
)

// Node is one node of the logical plan. Only the fields relevant to
// Kind are populated. Every node (other than Scan) has exactly one
// Input.
type Node struct {
	Kind  Kind
	Input *Node

	// KindScan
	Path        string
	Schema      value.Schema
	Projection  []int  // column indices to materialize; nil = all
	Empty       bool   // set by constant-fold when WHERE is trivially false
	PushedLimit *int64 // set by limit pushdown; nil = unbounded

	// KindFilter
	Predicate *expr.Expr

	// KindProject
	Columns []int // indices into Input's schema

	// KindLimit/KindOffset
	N int64

	// KindCount
	Agg      AggKind
	AggCol   int // valid when Agg == CountColumn

	// OutputSchema is filled in by Bind/the builder.
	OutputSchema value.Schema
}

func NewScan(path string, schema value.Schema) *Node {
	cols := make([]int, len(schema.Fields))
	for i := range cols {
		cols[i] = i
	}
	return &Node{Kind: KindScan, Path: path, Schema: schema, Projection: cols, OutputSchema: schema}
}

func NewFilter(input *Node, predicate *expr.Expr) *Node {
	return &Node{Kind: KindFilter, Input: input, Predicate: predicate, OutputSchema: input.OutputSchema}
}

func NewProject(input *Node, columns []int) *Node {
	return &Node{Kind: KindProject, Input: input, Columns: columns, OutputSchema: input.OutputSchema.Project(columns)}
}

func NewLimit(input *Node, n int64) *Node {
	return &Node{Kind: KindLimit, Input: input, N: n, OutputSchema: input.OutputSchema}
}

func NewOffset(input *Node, n int64) *Node {
	return &Node{Kind: KindOffset, Input: input, N: n, OutputSchema: input.OutputSchema}
}

func NewCountStar(input *Node) *Node {
	schema, _ := value.NewSchema(value.Field{Name: "count", Type: value.Int64})
	return &Node{Kind: KindCount, Input: input, Agg: CountStar, OutputSchema: schema}
}

func NewCountColumn(input *Node, col int) *Node {
	schema, _ := value.NewSchema(value.Field{Name: "count", Type: value.Int64})
	return &Node{Kind: KindCount, Input: input, Agg: CountColumn, AggCol: col, OutputSchema: schema}
}
