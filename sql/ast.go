// Package sql implements the SQL front-end (C8): a lexer and
// recursive-descent parser producing the AST consumed by plan.Bind.
// Grounded on the token/precedence structure of
// original_source/src/parser.rs and the token-type enumeration style
// of the Vegasq-parcat lexer. A thin collaborator: no query rewriting
// or semantic checks happen here, per spec's §1/§9 scope.
package sql

// SelectItem is one entry of a select_list: either a bare column name,
// '*', or a COUNT aggregate.
type SelectItem struct {
	Star      bool
	Column    string
	IsCount   bool
	CountStar bool // COUNT(*) vs COUNT(column)
}

// CmpOp mirrors expr.CmpOp at the AST layer, before column resolution.
type CmpOp uint8

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// LitKind tags which literal variant a Literal node carries.
type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitNumber
	LitString
)

// Literal is a parsed literal token, still as text for numbers (the
// binder decides Int64 vs Float64 from context-free parsing rules
// identical to Phase A's token grammar).
type Literal struct {
	Kind LitKind
	Text string
	Bool bool
}

// Expr is the AST's scalar expression tree, structurally identical to
// plan/expr's tagged variant but column references are still names.
type Expr struct {
	Kind ExprKind

	Column string // ExprColumn
	Lit    Literal

	Op       CmpOp
	Lhs, Rhs *Expr

	Inner *Expr
}

type ExprKind uint8

const (
	ExprColumn ExprKind = iota
	ExprLit
	ExprCmp
	ExprAnd
	ExprOr
	ExprNot
)

// SelectStmt is the parsed form of select_stmt.
type SelectStmt struct {
	Items  []SelectItem
	File   string
	Where  *Expr // nil if no WHERE clause
	Limit  *int64
	Offset *int64
}
