package plan

import (
	"strconv"

	"celect/celecterr"
	"celect/expr"
	"celect/sql"
	"celect/value"
)

// Bind resolves a parsed sql.SelectStmt's column names against schema
// (the scan's inferred schema) and builds the canonical logical tree
// bottom-up: Limit(Offset(Project(Filter(Scan)))), or Count(Filter(Scan))
// for a COUNT select list. OFFSET sits below LIMIT so rows are skipped
// before the count is truncated, matching
// original_source/src/execution/operators/limit.rs's single
// skip-then-truncate operator. Grounded on original_source/src/binder.rs's
// separation of name resolution from tree construction: every ColRef
// produced here already carries a resolved index, so later stages
// never re-derive one.
func Bind(stmt *sql.SelectStmt, schema value.Schema) (*Node, error) {
	scan := NewScan(stmt.File, schema)

	var root *Node = scan
	if stmt.Where != nil {
		pred, err := bindExpr(stmt.Where, schema)
		if err != nil {
			return nil, err
		}
		root = NewFilter(root, pred)
	}

	if isCountSelect(stmt.Items) {
		return bindCount(stmt, root, schema)
	}

	cols, err := bindProjection(stmt.Items, schema)
	if err != nil {
		return nil, err
	}
	if !isIdentityProjection(cols, schema) {
		root = NewProject(root, cols)
	}

	if stmt.Offset != nil {
		root = NewOffset(root, *stmt.Offset)
	}
	if stmt.Limit != nil {
		root = NewLimit(root, *stmt.Limit)
	}

	return root, nil
}

func isCountSelect(items []sql.SelectItem) bool {
	return len(items) == 1 && items[0].IsCount
}

func bindCount(stmt *sql.SelectStmt, input *Node, schema value.Schema) (*Node, error) {
	item := stmt.Items[0]
	if item.CountStar {
		return NewCountStar(input), nil
	}
	idx := schema.IndexOf(item.Column)
	if idx < 0 {
		return nil, celecterr.Plan("unknown column %q in COUNT()", item.Column)
	}
	return NewCountColumn(input, idx), nil
}

func bindProjection(items []sql.SelectItem, schema value.Schema) ([]int, error) {
	if len(items) == 1 && items[0].Star {
		cols := make([]int, len(schema.Fields))
		for i := range cols {
			cols[i] = i
		}
		return cols, nil
	}
	cols := make([]int, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		if it.Star {
			return nil, celecterr.Plan("'*' cannot be combined with other select items")
		}
		if seen[it.Column] {
			return nil, celecterr.Plan("duplicate column %q in select list", it.Column)
		}
		idx := schema.IndexOf(it.Column)
		if idx < 0 {
			return nil, celecterr.Plan("unknown column %q", it.Column)
		}
		seen[it.Column] = true
		cols = append(cols, idx)
	}
	return cols, nil
}

func isIdentityProjection(cols []int, schema value.Schema) bool {
	if len(cols) != len(schema.Fields) {
		return false
	}
	for i, c := range cols {
		if c != i {
			return false
		}
	}
	return true
}

// bindExpr translates a sql.Expr (names) into an expr.Expr (resolved
// indices), failing on any unknown column.
func bindExpr(e *sql.Expr, schema value.Schema) (*expr.Expr, error) {
	switch e.Kind {
	case sql.ExprColumn:
		idx := schema.IndexOf(e.Column)
		if idx < 0 {
			return nil, celecterr.Plan("unknown column %q", e.Column)
		}
		return expr.ColRef(idx), nil
	case sql.ExprLit:
		scalar, err := bindLiteral(e.Lit)
		if err != nil {
			return nil, err
		}
		return expr.Lit(scalar), nil
	case sql.ExprCmp:
		lhs, err := bindExpr(e.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := bindExpr(e.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return expr.Cmp(bindCmpOp(e.Op), lhs, rhs), nil
	case sql.ExprAnd:
		lhs, err := bindExpr(e.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := bindExpr(e.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return expr.And(lhs, rhs), nil
	case sql.ExprOr:
		lhs, err := bindExpr(e.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := bindExpr(e.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return expr.Or(lhs, rhs), nil
	case sql.ExprNot:
		inner, err := bindExpr(e.Inner, schema)
		if err != nil {
			return nil, err
		}
		return expr.Not(inner), nil
	default:
		return nil, celecterr.Plan("unsupported expression construct")
	}
}

func bindCmpOp(op sql.CmpOp) expr.CmpOp {
	switch op {
	case sql.OpEq:
		return expr.OpEq
	case sql.OpNe:
		return expr.OpNe
	case sql.OpLt:
		return expr.OpLt
	case sql.OpLe:
		return expr.OpLe
	case sql.OpGt:
		return expr.OpGt
	case sql.OpGe:
		return expr.OpGe
	default:
		return expr.OpEq
	}
}

// bindLiteral parses a literal's text using the same token grammar
// Phase A uses for type inference, so `age = 30` and a sampled CSV
// token "30" agree on being Int64.
func bindLiteral(lit sql.Literal) (value.Scalar, error) {
	switch lit.Kind {
	case sql.LitNull:
		return value.NullScalar(), nil
	case sql.LitBool:
		return value.BoolScalar(lit.Bool), nil
	case sql.LitString:
		return value.StrScalar(lit.Text), nil
	case sql.LitNumber:
		if i, err := strconv.ParseInt(lit.Text, 10, 64); err == nil {
			return value.Int64Scalar(i), nil
		}
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return value.Scalar{}, celecterr.Parse("invalid number literal %q", lit.Text)
		}
		return value.Float64Scalar(f), nil
	default:
		return value.Scalar{}, celecterr.Parse("unknown literal kind")
	}
}
