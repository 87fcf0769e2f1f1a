// Package driver implements the end-to-end orchestration (C7): parse
// → bind → optimize → physical pipeline → materialized result,
// tagging each query with a query ID the way the teacher tags each
// cache entry via uuid.NewV7 (manager/cache/slab_cache_manager.go) and
// logging phase progress through log/slog the way manager/*.go does.
package driver

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"celect/catalog"
	"celect/celecterr"
	"celect/config"
	"celect/csv"
	"celect/optimize"
	"celect/physical"
	"celect/plan"
	"celect/sql"
	"celect/value"
)

// Driver ties the catalog and config together for repeated queries
// against possibly many CSV files.
type Driver struct {
	cfg     config.Config
	catalog *catalog.Catalog
}

// New builds a Driver whose catalog infers schemas via csv.InferSchema
// using cfg.SampleRows.
func New(cfg config.Config) *Driver {
	cat := catalog.New(func(path string) (value.Schema, error) {
		return csv.InferSchema(path, cfg.SampleRows)
	})
	return &Driver{cfg: cfg, catalog: cat}
}

// Result is a materialized query result: the output schema plus the
// batches of rows produced by the physical pipeline, each already
// trimmed to its live selection. MalformedRows counts rows csv.Scanner
// dropped for having the wrong column count; it never fails the query.
type Result struct {
	QueryID       uuid.UUID
	Schema        value.Schema
	Batches       []*value.Batch
	Elapsed       time.Duration
	MalformedRows int64
}

// Breakdown additionally reports logical plans before and after
// optimization, and per-phase timings, for the CLI's breakdown
// subcommand.
type Breakdown struct {
	Result

	ParsedAt    time.Duration
	BoundAt     time.Duration
	OptimizedAt time.Duration
	ExecutedAt  time.Duration

	RawPlan       *plan.Node
	OptimizedPlan *plan.Node
}

// Execute runs query end to end: parse, bind against the file's
// inferred schema, optimize, build the physical pipeline, and drain
// the scan to a materialized Result.
func (d *Driver) Execute(query string) (*Result, error) {
	b, err := d.run(query)
	if err != nil {
		return nil, err
	}
	return &b.Result, nil
}

// ExecuteBreakdown is Execute plus the phase timings and plan trees
// the CLI's breakdown subcommand prints.
func (d *Driver) ExecuteBreakdown(query string) (*Breakdown, error) {
	return d.run(query)
}

func (d *Driver) run(query string) (*Breakdown, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	start := time.Now()
	log := slog.With("query_id", id.String())

	stmt, err := sql.Parse(query)
	if err != nil {
		return nil, celecterr.Parse("%v", err)
	}
	parsedAt := time.Since(start)
	log.Info("parsed query", "kind", "parse", "took", parsedAt)

	schema, err := d.catalog.Schema(stmt.File)
	if err != nil {
		return nil, err
	}

	root, err := plan.Bind(stmt, schema)
	if err != nil {
		return nil, err
	}
	boundAt := time.Since(start)
	log.Info("bound plan", "kind", "bind", "took", boundAt-parsedAt)

	optimized := optimize.Optimize(root)
	optimizedAt := time.Since(start)
	log.Info("optimized plan", "kind", "optimize", "took", optimizedAt-boundAt)

	result, err := d.execute(id, optimized, schema)
	if err != nil {
		return nil, err
	}
	executedAt := time.Since(start)
	log.Info("executed query", "kind", "execute", "took", executedAt-optimizedAt,
		"rows", countRows(result.Batches), "malformed_rows", result.MalformedRows)

	result.Elapsed = executedAt
	return &Breakdown{
		Result:        *result,
		ParsedAt:      parsedAt,
		BoundAt:       boundAt,
		OptimizedAt:   optimizedAt,
		ExecutedAt:    executedAt,
		RawPlan:       root,
		OptimizedPlan: optimized,
	}, nil
}

// execute finds the Scan leaf, builds the physical Pipeline above it,
// drives csv.Scanner, and gathers every surviving batch into owned
// storage at the sink boundary.
func (d *Driver) execute(id uuid.UUID, root *plan.Node, schema value.Schema) (*Result, error) {
	scan := findScan(root)
	if scan.Empty {
		return &Result{QueryID: id, Schema: root.OutputSchema}, nil
	}

	var stop atomic.Bool
	pipeline := physical.Build(root, &stop)

	var rowBudget *atomic.Int64
	if scan.PushedLimit != nil {
		rowBudget = &atomic.Int64{}
		rowBudget.Store(*scan.PushedLimit)
	}

	scanner := csv.NewScanner(d.cfg, scan.Path, scan.Schema)
	var batches []*value.Batch

	malformed, err := scanner.Scan(func(b *value.Batch) error {
		out := pipeline.Push(b)
		if out != nil {
			batches = append(batches, out.GatherToOwned())
		}
		return nil
	}, csv.ScanOptions{
		Projection: scan.Projection,
		Stop:       &stop,
		RowBudget:  rowBudget,
	})
	// Stop is only ever raised by a satisfied Limit (physical.pushLimit),
	// never by anything the caller should see as a failure, so a worker
	// observing it mid-scan and returning celecterr.Cancelled is the
	// expected shape of "Limit cut the scan short", not an error.
	var cerr *celecterr.Error
	if err != nil && !(errors.As(err, &cerr) && cerr.Kind == celecterr.KindCancelled) {
		return nil, err
	}

	if final := pipeline.Finish(); final != nil {
		batches = append(batches, final)
	}

	return &Result{QueryID: id, Schema: root.OutputSchema, Batches: batches, MalformedRows: malformed}, nil
}

func findScan(n *plan.Node) *plan.Node {
	for n.Kind != plan.KindScan {
		n = n.Input
	}
	return n
}

func countRows(batches []*value.Batch) int {
	n := 0
	for _, b := range batches {
		n += b.LiveLen()
	}
	return n
}
