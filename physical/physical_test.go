package physical

import (
	"sync/atomic"
	"testing"

	"celect/expr"
	"celect/plan"
	"celect/value"
)

func testBatch(t *testing.T, n int) *value.Batch {
	t.Helper()
	schema, err := value.NewSchema(
		value.Field{Name: "id", Type: value.Int64},
		value.Field{Name: "active", Type: value.Bool},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	id := value.NewColumn(value.Int64, n)
	active := value.NewColumn(value.Bool, n)
	for i := 0; i < n; i++ {
		id.AppendInt64(int64(i))
		active.AppendBool(i%2 == 0)
	}
	return &value.Batch{Schema: schema, Columns: []value.Column{id, active}, N: n}
}

func TestFilterStageDropsFalseRows(t *testing.T) {
	b := testBatch(t, 4) // active: true,false,true,false
	pred := expr.Cmp(expr.OpEq, expr.ColRef(1), expr.Lit(value.BoolScalar(true)))
	p := &Pipeline{Stages: []*Stage{{Kind: StageFilter, Predicate: pred}}}

	out := p.Push(b)
	if out == nil {
		t.Fatalf("expected a surviving batch")
	}
	if got := out.SelectionOrAll(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("expected selection [0 2], got %v", got)
	}
}

func TestFilterStageDropsEmptyBatch(t *testing.T) {
	b := testBatch(t, 2)
	pred := expr.Cmp(expr.OpEq, expr.ColRef(0), expr.Lit(value.Int64Scalar(-1)))
	p := &Pipeline{Stages: []*Stage{{Kind: StageFilter, Predicate: pred}}}

	if out := p.Push(b); out != nil {
		t.Fatalf("expected nil for an entirely filtered-out batch, got %v", out)
	}
}

func TestProjectStageNarrowsColumns(t *testing.T) {
	b := testBatch(t, 3)
	p := &Pipeline{Stages: []*Stage{{Kind: StageProject, Columns: []int{1}}}}

	out := p.Push(b)
	if len(out.Columns) != 1 || out.Schema.Fields[0].Name != "active" {
		t.Fatalf("expected projected batch with only 'active', got %+v", out.Schema)
	}
}

func TestOffsetStageTrimsAndDrops(t *testing.T) {
	b := testBatch(t, 5)
	st := &Stage{Kind: StageOffset, Remaining: 7}
	p := &Pipeline{Stages: []*Stage{st}}

	if out := p.Push(b); out != nil {
		t.Fatalf("expected first batch fully consumed by offset, got %v", out)
	}
	if st.Remaining != 2 {
		t.Fatalf("expected remaining offset 2, got %d", st.Remaining)
	}

	b2 := testBatch(t, 5)
	out := p.Push(b2)
	if out == nil {
		t.Fatalf("expected second batch to surface trimmed rows")
	}
	if got := out.SelectionOrAll(); len(got) != 3 || got[0] != 2 {
		t.Fatalf("expected selection starting at row 2, got %v", got)
	}
	if st.Remaining != 0 {
		t.Fatalf("expected remaining offset 0, got %d", st.Remaining)
	}
}

func TestLimitStageTrimsAndSignalsStop(t *testing.T) {
	b := testBatch(t, 5)
	var stop atomic.Bool
	st := &Stage{Kind: StageLimit, Remaining: 3}
	p := &Pipeline{Stages: []*Stage{st}, Stop: &stop}

	out := p.Push(b)
	if out == nil {
		t.Fatalf("expected a trimmed batch")
	}
	if got := out.SelectionOrAll(); len(got) != 3 {
		t.Fatalf("expected 3 rows, got %v", got)
	}
	if !stop.Load() {
		t.Fatalf("expected limit exhaustion to raise the stop flag")
	}
}

func TestLimitStageExactFitAlsoStops(t *testing.T) {
	b := testBatch(t, 3)
	var stop atomic.Bool
	st := &Stage{Kind: StageLimit, Remaining: 3}
	p := &Pipeline{Stages: []*Stage{st}, Stop: &stop}

	out := p.Push(b)
	if out == nil || out.LiveLen() != 3 {
		t.Fatalf("expected all 3 rows through, got %v", out)
	}
	if !stop.Load() {
		t.Fatalf("expected exact-fit limit to also raise stop")
	}
}

func TestCountStarAccumulatesAcrossBatches(t *testing.T) {
	st := &Stage{Kind: StageCount, Agg: plan.CountStar}
	p := &Pipeline{Stages: []*Stage{st}}

	if out := p.Push(testBatch(t, 4)); out != nil {
		t.Fatalf("Count should never emit per batch")
	}
	p.Push(testBatch(t, 3))

	final := p.Finish()
	if final == nil || final.Columns[0].I64[0] != 7 {
		t.Fatalf("expected count 7, got %v", final)
	}
}

func TestCountColumnSkipsNulls(t *testing.T) {
	schema, err := value.NewSchema(value.Field{Name: "n", Type: value.Int64})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	col := value.NewColumn(value.Int64, 3)
	col.AppendInt64(1)
	col.AppendNull()
	col.AppendInt64(3)
	b := &value.Batch{Schema: schema, Columns: []value.Column{col}, N: 3}

	st := &Stage{Kind: StageCount, Agg: plan.CountColumn, AggCol: 0}
	p := &Pipeline{Stages: []*Stage{st}}
	p.Push(b)

	final := p.Finish()
	if final.Columns[0].I64[0] != 2 {
		t.Fatalf("expected count 2 (NULL skipped), got %d", final.Columns[0].I64[0])
	}
}

func TestBuildOrdersStagesSourceToSink(t *testing.T) {
	schema, err := value.NewSchema(value.Field{Name: "id", Type: value.Int64})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	scan := plan.NewScan("data.csv", schema)
	filter := plan.NewFilter(scan, expr.Cmp(expr.OpEq, expr.ColRef(0), expr.Lit(value.Int64Scalar(1))))
	offset := plan.NewOffset(filter, 2)
	limit := plan.NewLimit(offset, 10)

	p := Build(limit, nil)
	if len(p.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(p.Stages))
	}
	if p.Stages[0].Kind != StageFilter || p.Stages[1].Kind != StageOffset || p.Stages[2].Kind != StageLimit {
		t.Fatalf("expected Filter, Offset, Limit order, got %+v", p.Stages)
	}
}
