package optimize

import (
	"celect/plan"
	"celect/value"
)

// eliminateDeadCode drops identity Projects and Offset(0). Limit(∞)
// never arises here since the grammar requires an integer after
// LIMIT, so there is no unbounded sentinel to strip.
func eliminateDeadCode(root *plan.Node) (*plan.Node, bool) {
	return deadCodeNode(root)
}

func deadCodeNode(n *plan.Node) (*plan.Node, bool) {
	if n == nil {
		return nil, false
	}

	changed := false
	if n.Input != nil {
		newInput, c := deadCodeNode(n.Input)
		if c {
			n.Input = newInput
			changed = true
		}
	}

	switch n.Kind {
	case plan.KindProject:
		if isIdentity(n.Columns, n.Input.OutputSchema) {
			return n.Input, true
		}
	case plan.KindOffset:
		if n.N == 0 {
			return n.Input, true
		}
	}

	return n, changed
}

func isIdentity(cols []int, schema value.Schema) bool {
	if len(cols) != schema.Len() {
		return false
	}
	for i, c := range cols {
		if c != i {
			return false
		}
	}
	return true
}
