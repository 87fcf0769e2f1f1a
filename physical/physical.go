// Package physical implements the push-based physical operators (C6):
// Filter, Project, Offset, Limit, Count, chained downstream of a
// csv.Scanner's batch emission. Kept as a tagged-variant Stage struct
// dispatched via a single type switch in Pipeline.Push, rather than a
// virtual push call through an interface per stage per batch — the
// alternative the design notes call out as preferable for a hot path
// (see optimize/plan's matching tagged-dispatch style for FieldType).
package physical

import (
	"sync/atomic"

	"celect/expr"
	"celect/plan"
	"celect/value"
)

type StageKind uint8

const (
	StageFilter StageKind = iota
	StageProject
	StageOffset
	StageLimit
	StageCount
)

// Stage is one physical operator. Only the fields relevant to Kind
// are populated; Remaining/Total are the per-query mutable state
// spec §4.6 calls out for Offset, Limit, and Count.
type Stage struct {
	Kind StageKind

	Predicate *expr.Expr // StageFilter
	Columns   []int      // StageProject

	Remaining int64 // StageOffset/StageLimit

	Agg    plan.AggKind // StageCount
	AggCol int          // StageCount, valid when Agg == CountColumn
	Total  int64        // StageCount accumulator
}

// Pipeline is the linear chain of Stages a Scan's batches flow
// through, plus the shared cancellation flag Limit raises once its
// remaining counter reaches zero.
type Pipeline struct {
	Stages []*Stage
	Stop   *atomic.Bool
}

// Build walks root's Input chain down to (but excluding) the Scan leaf
// and returns the Stages in push order: innermost operator (the one
// directly above Scan) first, root last.
func Build(root *plan.Node, stop *atomic.Bool) *Pipeline {
	var topDown []*plan.Node
	for n := root; n != nil && n.Kind != plan.KindScan; n = n.Input {
		topDown = append(topDown, n)
	}

	stages := make([]*Stage, len(topDown))
	for i, n := range topDown {
		stages[len(topDown)-1-i] = buildStage(n)
	}
	return &Pipeline{Stages: stages, Stop: stop}
}

func buildStage(n *plan.Node) *Stage {
	switch n.Kind {
	case plan.KindFilter:
		return &Stage{Kind: StageFilter, Predicate: n.Predicate}
	case plan.KindProject:
		return &Stage{Kind: StageProject, Columns: n.Columns}
	case plan.KindOffset:
		return &Stage{Kind: StageOffset, Remaining: n.N}
	case plan.KindLimit:
		return &Stage{Kind: StageLimit, Remaining: n.N}
	case plan.KindCount:
		return &Stage{Kind: StageCount, Agg: n.Agg, AggCol: n.AggCol}
	default:
		panic("physical.Build: unexpected node kind")
	}
}

// Push runs b through every stage in order, returning the transformed
// batch to emit downstream, or nil if a stage dropped it (an empty
// Filter selection, an Offset that entirely consumes the batch, or a
// terminal Count that never re-emits per batch).
func (p *Pipeline) Push(b *value.Batch) *value.Batch {
	live := b.SelectionOrAll()
	cur := b

	for _, st := range p.Stages {
		switch st.Kind {
		case StageFilter:
			live, cur = pushFilter(st, cur, live)
			if len(live) == 0 {
				return nil
			}
		case StageProject:
			cur = cur.Project(st.Columns)
		case StageOffset:
			var dropped bool
			live, cur, dropped = pushOffset(st, cur, live)
			if dropped {
				return nil
			}
		case StageLimit:
			live, cur = pushLimit(st, cur, live, p.Stop)
		case StageCount:
			pushCount(st, cur, live)
			return nil
		}
	}

	return cur
}

// Finish returns the terminal Count stage's single-row result batch,
// or nil if the pipeline has no Count stage.
func (p *Pipeline) Finish() *value.Batch {
	for _, st := range p.Stages {
		if st.Kind == StageCount {
			col := value.NewColumn(value.Int64, 1)
			col.AppendInt64(st.Total)
			schema, _ := value.NewSchema(value.Field{Name: "count", Type: value.Int64})
			return &value.Batch{Schema: schema, Columns: []value.Column{col}, N: 1}
		}
	}
	return nil
}

func pushFilter(st *Stage, cur *value.Batch, live []uint16) ([]uint16, *value.Batch) {
	ts := expr.Eval(st.Predicate, cur, live)
	kept := make([]uint16, 0, len(live))
	for _, row := range live {
		if ts.True.Get(int(row)) == 1 {
			kept = append(kept, row)
		}
	}
	return kept, cur.WithSelection(kept)
}

func pushOffset(st *Stage, cur *value.Batch, live []uint16) ([]uint16, *value.Batch, bool) {
	l := int64(len(live))
	if st.Remaining >= l {
		st.Remaining -= l
		return live, cur, true
	}
	trimmed := live[st.Remaining:]
	st.Remaining = 0
	return trimmed, cur.WithSelection(trimmed), false
}

func pushLimit(st *Stage, cur *value.Batch, live []uint16, stop *atomic.Bool) ([]uint16, *value.Batch) {
	l := int64(len(live))
	if l <= st.Remaining {
		st.Remaining -= l
	} else {
		live = live[:st.Remaining]
		cur = cur.WithSelection(live)
		st.Remaining = 0
	}
	if st.Remaining <= 0 && stop != nil {
		stop.Store(true)
	}
	return live, cur
}

func pushCount(st *Stage, cur *value.Batch, live []uint16) {
	switch st.Agg {
	case plan.CountStar:
		st.Total += int64(len(live))
	case plan.CountColumn:
		col := &cur.Columns[st.AggCol]
		for _, row := range live {
			if col.IsValid(int(row)) {
				st.Total++
			}
		}
	}
}
