package optimize

import (
	"celect/expr"
	"celect/plan"
)

// pushDownProjection computes the set of Scan columns transitively
// required by Project/Filter/Count above Scan, narrows Scan.Projection
// (original Scan-schema indices) to exactly that set, and rewrites every
// ColRef (in Filter predicates, Project.Columns, Count.AggCol) into
// the new compacted index space. Idempotent: a plan already minimally
// projected maps every required index to itself, so a second pass is
// a no-op (reports no change).
func pushDownProjection(root *plan.Node) (*plan.Node, bool) {
	scan := findScan(root)
	if scan.Empty {
		return root, false
	}

	required := map[int]bool{}
	collectRequired(root, required)

	if !hasProjectOrCount(root) {
		// No Project or Count sits above Scan: either the identity
		// projection for a bare SELECT * was elided by plan.Bind, or
		// eliminateDeadCode dropped a Project an earlier pass made
		// identity. Either way the root's output is every column Scan
		// currently emits, not just the ones a Filter predicate happens
		// to reference, so there is nothing to narrow.
		return root, false
	}

	// required holds indices into Scan's current output; map them back
	// to original Scan-schema indices.
	var newCols []int
	for _, cur := range sortedKeys(required) {
		newCols = append(newCols, scan.Projection[cur])
	}
	if len(newCols) == 0 && len(scan.Schema.Fields) > 0 {
		// COUNT(*) needs no column data; keep column 0 so Phase B
		// has a schema to tokenize against.
		newCols = []int{0}
	}

	if sameInts(newCols, scan.Projection) {
		return root, false
	}

	newPos := make(map[int]int, len(newCols))
	for newIdx, origIdx := range newCols {
		newPos[origIdx] = newIdx
	}
	remap := make(map[int]int, len(scan.Projection))
	for cur, origIdx := range scan.Projection {
		if p, ok := newPos[origIdx]; ok {
			remap[cur] = p
		}
	}

	scan.Projection = newCols
	scan.OutputSchema = scan.Schema.Project(newCols)

	rewriteIndices(root, remap)
	return root, true
}

// collectRequired walks the tree collecting the column indices (into
// Scan's current output) a Filter predicate, Project, or Count references.
func collectRequired(n *plan.Node, out map[int]bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case plan.KindFilter:
		collectExprRefs(n.Predicate, out)
	case plan.KindProject:
		for _, c := range n.Columns {
			out[c] = true
		}
	case plan.KindCount:
		if n.Agg == plan.CountColumn {
			out[n.AggCol] = true
		}
	}
	collectRequired(n.Input, out)
}

// hasProjectOrCount reports whether a Project or Count node sits
// between root and the Scan leaf. Filter/Offset/Limit alone never
// narrow the output schema, so their presence doesn't count.
func hasProjectOrCount(n *plan.Node) bool {
	for n != nil && n.Kind != plan.KindScan {
		if n.Kind == plan.KindProject || n.Kind == plan.KindCount {
			return true
		}
		n = n.Input
	}
	return false
}

func collectExprRefs(e *expr.Expr, out map[int]bool) {
	switch e.Kind {
	case expr.KindColRef:
		out[e.ColIndex] = true
	case expr.KindCmp, expr.KindAnd, expr.KindOr:
		collectExprRefs(e.Lhs, out)
		collectExprRefs(e.Rhs, out)
	case expr.KindNot:
		collectExprRefs(e.Inner, out)
	}
}

// rewriteIndices walks the tree replacing every column index into
// Scan's previous output with its compacted position, per remap.
func rewriteIndices(n *plan.Node, remap map[int]int) {
	if n == nil {
		return
	}

	// Scan's OutputSchema was already set by the caller; Filter/Count
	// reference n.Input's *old* column indices, so rewrite those before
	// recursing into the input.
	switch n.Kind {
	case plan.KindFilter:
		n.Predicate = rewriteExprRefs(n.Predicate, remap)
	case plan.KindProject:
		cols := make([]int, len(n.Columns))
		for i, c := range n.Columns {
			cols[i] = remap[c]
		}
		n.Columns = cols
	case plan.KindCount:
		if n.Agg == plan.CountColumn {
			n.AggCol = remap[n.AggCol]
		}
	}

	rewriteIndices(n.Input, remap)

	switch n.Kind {
	case plan.KindScan:
		// already set by the caller
	case plan.KindProject:
		n.OutputSchema = n.Input.OutputSchema.Project(n.Columns)
	case plan.KindCount:
		// fixed "count" schema, independent of input
	default:
		n.OutputSchema = n.Input.OutputSchema
	}
}

func rewriteExprRefs(e *expr.Expr, remap map[int]int) *expr.Expr {
	switch e.Kind {
	case expr.KindColRef:
		return expr.ColRef(remap[e.ColIndex])
	case expr.KindLit:
		return e
	case expr.KindCmp:
		return expr.Cmp(e.Op, rewriteExprRefs(e.Lhs, remap), rewriteExprRefs(e.Rhs, remap))
	case expr.KindAnd:
		return expr.And(rewriteExprRefs(e.Lhs, remap), rewriteExprRefs(e.Rhs, remap))
	case expr.KindOr:
		return expr.Or(rewriteExprRefs(e.Lhs, remap), rewriteExprRefs(e.Rhs, remap))
	case expr.KindNot:
		return expr.Not(rewriteExprRefs(e.Inner, remap))
	default:
		return e
	}
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
