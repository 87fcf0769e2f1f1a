// Package expr evaluates the scalar Expression tree (C3) against a
// columnar batch, producing Kleene three-valued boolean masks for
// predicates. Kept a tagged-variant struct rather than an interface
// per operator kind, matching the dispatch style the teacher applies
// to schema.FieldType (a type-tag switch, not per-kind virtual
// methods) and that the design notes call out as preferable where a
// hot path is involved.
package expr

import "celect/value"

// Kind tags which variant of Expr a node is.
type Kind uint8

const (
	KindColRef Kind = iota
	KindLit
	KindCmp
	KindAnd
	KindOr
	KindNot
)

// CmpOp is a comparison operator.
type CmpOp uint8

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op CmpOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Expr is a node in the scalar expression tree. Only the fields
// relevant to Kind are populated.
type Expr struct {
	Kind Kind

	// KindColRef: zero-based column index in the operator's input
	// schema, resolved by plan.Bind before any Expr reaches here.
	ColIndex int

	// KindLit
	Lit value.Scalar

	// KindCmp
	Op       CmpOp
	Lhs, Rhs *Expr

	// KindAnd/KindOr reuse Lhs/Rhs.

	// KindNot
	Inner *Expr
}

func ColRef(index int) *Expr       { return &Expr{Kind: KindColRef, ColIndex: index} }
func Lit(v value.Scalar) *Expr     { return &Expr{Kind: KindLit, Lit: v} }
func Cmp(op CmpOp, l, r *Expr) *Expr { return &Expr{Kind: KindCmp, Op: op, Lhs: l, Rhs: r} }
func And(l, r *Expr) *Expr         { return &Expr{Kind: KindAnd, Lhs: l, Rhs: r} }
func Or(l, r *Expr) *Expr          { return &Expr{Kind: KindOr, Lhs: l, Rhs: r} }
func Not(inner *Expr) *Expr        { return &Expr{Kind: KindNot, Inner: inner} }

// StaticType returns the type e would produce, used by the comparison
// coercion rules in Eval. Cmp/And/Or/Not always produce Bool (possibly
// NULL at runtime, never a type error).
func StaticType(e *Expr, schema value.Schema) value.Type {
	switch e.Kind {
	case KindColRef:
		return schema.Fields[e.ColIndex].Type
	case KindLit:
		return e.Lit.Type
	default:
		return value.Bool
	}
}

// HasColRef reports whether e or any descendant references a column,
// i.e. whether it can be constant-folded.
func HasColRef(e *Expr) bool {
	switch e.Kind {
	case KindColRef:
		return true
	case KindLit:
		return false
	case KindCmp:
		return HasColRef(e.Lhs) || HasColRef(e.Rhs)
	case KindAnd, KindOr:
		return HasColRef(e.Lhs) || HasColRef(e.Rhs)
	case KindNot:
		return HasColRef(e.Inner)
	default:
		return false
	}
}
