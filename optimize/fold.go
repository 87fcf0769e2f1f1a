package optimize

import (
	"reflect"

	"celect/expr"
	"celect/plan"
)

// foldConstants folds every Filter's predicate, dropping the Filter
// when it's trivially true and collapsing the whole subtree to an
// empty Scan when it's trivially false.
func foldConstants(root *plan.Node) (*plan.Node, bool) {
	return foldNode(root)
}

func foldNode(n *plan.Node) (*plan.Node, bool) {
	if n == nil {
		return nil, false
	}

	changed := false
	if n.Input != nil {
		newInput, c := foldNode(n.Input)
		if c {
			n.Input = newInput
			changed = true
		}
	}

	if n.Kind != plan.KindFilter {
		return n, changed
	}

	folded := expr.Fold(n.Predicate)
	if !reflect.DeepEqual(folded, n.Predicate) {
		n.Predicate = folded
		changed = true
	}

	if folded.Kind != expr.KindLit {
		return n, changed
	}

	if folded.Lit.Null {
		return emptyScanLike(n), true
	}
	if folded.Lit.B {
		return n.Input, true // trivially true WHERE -> drop Filter
	}
	return emptyScanLike(n), true // trivially false WHERE -> empty Scan
}

// emptyScanLike walks down to the Scan under n and returns a copy
// marked Empty, preserving its schema so downstream Project/Count
// nodes keep their shape with zero rows.
func emptyScanLike(n *plan.Node) *plan.Node {
	scan := findScan(n)
	empty := *scan
	empty.Empty = true
	return &empty
}

func findScan(n *plan.Node) *plan.Node {
	for n.Kind != plan.KindScan {
		n = n.Input
	}
	return n
}
