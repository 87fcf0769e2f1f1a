package expr

import "celect/value"

// Fold recursively replaces any subtree with no ColRef descendants by
// its precomputed Lit scalar, per spec's constant-folding rule. The
// optimizer calls this to fixpoint so predicates like `1 = 1 AND col >
// 0` collapse their constant half away entirely.
func Fold(e *Expr) *Expr {
	switch e.Kind {
	case KindColRef, KindLit:
		return e
	case KindCmp:
		l, r := Fold(e.Lhs), Fold(e.Rhs)
		folded := &Expr{Kind: KindCmp, Op: e.Op, Lhs: l, Rhs: r}
		if !HasColRef(folded) {
			return Lit(evalConstBool(folded))
		}
		return folded
	case KindAnd:
		l, r := Fold(e.Lhs), Fold(e.Rhs)
		if lv, ok := constBool(l); ok {
			if lv.Null {
				return foldAndNullSide(r)
			}
			if !lv.B {
				return Lit(value.BoolScalar(false))
			}
			return r
		}
		if rv, ok := constBool(r); ok {
			if rv.Null {
				return foldAndNullSide(l)
			}
			if !rv.B {
				return Lit(value.BoolScalar(false))
			}
			return l
		}
		return &Expr{Kind: KindAnd, Lhs: l, Rhs: r}
	case KindOr:
		l, r := Fold(e.Lhs), Fold(e.Rhs)
		if lv, ok := constBool(l); ok {
			if lv.Null {
				return foldOrNullSide(r)
			}
			if lv.B {
				return Lit(value.BoolScalar(true))
			}
			return r
		}
		if rv, ok := constBool(r); ok {
			if rv.Null {
				return foldOrNullSide(l)
			}
			if rv.B {
				return Lit(value.BoolScalar(true))
			}
			return l
		}
		return &Expr{Kind: KindOr, Lhs: l, Rhs: r}
	case KindNot:
		inner := Fold(e.Inner)
		if v, ok := constBool(inner); ok {
			if v.Null {
				return Lit(value.NullScalar())
			}
			return Lit(value.BoolScalar(!v.B))
		}
		return Not(inner)
	default:
		return e
	}
}

// foldAndNullSide implements `NULL AND x` (Kleene AND): a constant false
// x forces false, a constant true or NULL x gives NULL, so only a
// statically unknown x keeps the AND node; a constant x collapses fully.
func foldAndNullSide(x *Expr) *Expr {
	if v, ok := constBool(x); ok {
		if !v.Null && !v.B {
			return Lit(value.BoolScalar(false))
		}
		return Lit(value.NullScalar())
	}
	return &Expr{Kind: KindAnd, Lhs: Lit(value.NullScalar()), Rhs: x}
}

func foldOrNullSide(x *Expr) *Expr {
	if v, ok := constBool(x); ok {
		if !v.Null && v.B {
			return Lit(value.BoolScalar(true))
		}
		return Lit(value.NullScalar())
	}
	return &Expr{Kind: KindOr, Lhs: Lit(value.NullScalar()), Rhs: x}
}

func constBool(e *Expr) (value.Scalar, bool) {
	if e.Kind == KindLit {
		return e.Lit, true
	}
	return value.Scalar{}, false
}

// evalConstBool evaluates a fully-literal Cmp node to a Bool/NULL
// scalar by running it through the real evaluator over a single
// synthetic row.
func evalConstBool(e *Expr) value.Scalar {
	ts := Eval(e, &value.Batch{}, []uint16{0})
	if ts.Valid.Get(0) == 0 {
		return value.NullScalar()
	}
	return value.BoolScalar(ts.True.Get(0) == 1)
}
