package optimize

import "celect/plan"

// pushDownLimit sets Scan.PushedLimit when the plan is
// Limit(n) -> Project? -> Scan with no Filter or Offset in between, or
// Limit(n) -> Offset(m) -> Project? -> Scan (pushes m+n as an upper
// bound, since Offset still has to skip the first m rows before Limit
// truncates).
func pushDownLimit(root *plan.Node) (*plan.Node, bool) {
	if root.Kind != plan.KindLimit {
		return root, false
	}
	limit := root.N

	var offset int64
	below := root.Input
	if below != nil && below.Kind == plan.KindOffset {
		offset = below.N
		below = below.Input
	}
	if below != nil && below.Kind == plan.KindProject {
		below = below.Input
	}
	if below == nil || below.Kind != plan.KindScan {
		return root, false
	}

	bound := offset + limit
	if below.PushedLimit != nil && *below.PushedLimit == bound {
		return root, false
	}
	below.PushedLimit = &bound
	return root, true
}
