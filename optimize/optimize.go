// Package optimize applies the rule-based rewrite set (C5) to a
// logical plan tree, looped to a fixpoint: constant folding,
// dead-column elimination/projection pushdown, limit pushdown, and
// dead code elimination. Grounded structurally on
// original_source/src/optimizer.rs's three-pass sequence
// (eliminate_dead_code -> collect_required_columns +
// apply_projection_pushdown -> push_down_limit), with Celect looping
// the whole sequence to a fixpoint as the spec requires (the Rust
// original runs each pass once).
package optimize

import "celect/plan"

// Optimize rewrites root in place (conceptually; nodes are replaced by
// fresh ones where semantics change) until no pass makes further
// progress, and returns the resulting root.
func Optimize(root *plan.Node) *plan.Node {
	for {
		var changed1, changed2, changed3, changed4 bool
		root, changed1 = foldConstants(root)
		root, changed2 = pushDownProjection(root)
		root, changed3 = pushDownLimit(root)
		root, changed4 = eliminateDeadCode(root)
		if !changed1 && !changed2 && !changed3 && !changed4 {
			return root
		}
	}
}
