package csv

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"celect/catalog"
	"celect/celecterr"
	"celect/config"
	"celect/value"
)

// boundaryWindow bounds how far FindRecordBoundary is allowed to look
// past a naive chunk split to find the next safe newline. A single
// record longer than this defeats chunk adjustment; CSV rows are not
// expected to approach this size.
const boundaryWindow = 4 << 20

// ScanOptions carries the cooperative cancellation and limit-pushdown
// state shared across a query's scan workers (spec §5: one stop flag,
// one atomic row counter, confined to Scan).
type ScanOptions struct {
	// Projection names the column indices to materialize; nil means
	// all columns in the inferred schema.
	Projection []int

	// Stop, when non-nil and observed true, aborts the scan with
	// celecterr.Cancelled after the in-flight batch.
	Stop *atomic.Bool

	// RowBudget, when non-nil, is the number of additional rows the
	// physical Limit operator still needs; workers stop producing once
	// it reaches zero. nil means unbounded.
	RowBudget *atomic.Int64
}

// Scanner drives Phase B/C of a single CSV file against a schema
// already inferred by Phase A (via catalog.Catalog).
type Scanner struct {
	path   string
	schema value.Schema
	cfg    config.Config
}

func NewScanner(cfg config.Config, path string, schema value.Schema) *Scanner {
	return &Scanner{path: path, schema: schema, cfg: cfg}
}

// Scan partitions the file into cfg.Parallelism byte-range chunks,
// tokenizes and types each chunk's records into batches of cfg.BatchSize
// rows, and calls emit for each one. emit calls are serialized (spec's
// "serialized sink"), so callers need no locking of their own. It
// returns the number of malformed rows (wrong column count) that were
// dropped rather than included in any batch, per spec §4.2/§7.
func (s *Scanner) Scan(emit func(*value.Batch) error, opts ScanOptions) (int64, error) {
	src, err := openByteSource(s.path)
	if err != nil {
		return 0, celecterr.IO(err, "opening %s", s.path)
	}
	defer src.Close()

	size := src.Size()
	headerEnd, err := s.findHeaderEnd(src, size)
	if err != nil {
		return 0, err
	}

	cols := opts.Projection
	if cols == nil {
		cols = make([]int, len(s.schema.Fields))
		for i := range cols {
			cols[i] = i
		}
	}
	schema := s.schema.Project(cols)

	bounds, err := s.partition(src, headerEnd, size)
	if err != nil {
		return 0, err
	}

	// One pooled batch per worker slot is enough: a worker only ever
	// holds the one it is currently filling, plus briefly the one it
	// just flushed. Sized at 2*Parallelism so a slow emit on one
	// worker never starves another's next Get.
	pool := catalog.NewBatchPool(2*s.cfg.Parallelism, schema, s.cfg.BatchSize)

	var sinkMu sync.Mutex
	var malformed atomic.Int64
	g := &errgroup.Group{}
	g.SetLimit(s.cfg.Parallelism)

	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		if start >= end {
			continue
		}
		g.Go(func() error {
			return s.scanChunk(src, start, end, cols, pool, opts, emit, &sinkMu, &malformed)
		})
	}

	err = g.Wait()
	return malformed.Load(), err
}

// findHeaderEnd locates the first unquoted newline in the file, which
// marks the end of the header row.
func (s *Scanner) findHeaderEnd(src byteSource, size int64) (int64, error) {
	window := size
	if window > boundaryWindow {
		window = boundaryWindow
	}
	head, err := src.ReadRange(0, window)
	if err != nil {
		return 0, celecterr.IO(err, "reading header of %s", s.path)
	}
	return int64(FindRecordBoundary(head, 0)), nil
}

// partition splits [from, size) into cfg.Parallelism contiguous ranges,
// each boundary adjusted forward to the next unquoted newline so every
// record is covered by exactly one worker.
func (s *Scanner) partition(src byteSource, from, size int64) ([]int64, error) {
	p := int64(s.cfg.Parallelism)
	if p < 1 {
		p = 1
	}
	total := size - from
	if total <= 0 {
		return []int64{from, from}, nil
	}

	chunk := total / p
	if chunk == 0 {
		chunk = total
		p = 1
	}

	bounds := make([]int64, 0, p+1)
	bounds = append(bounds, from)
	for i := int64(1); i < p; i++ {
		naive := from + i*chunk
		if naive >= size {
			break
		}
		adj, err := s.adjustBoundary(src, bounds[len(bounds)-1], naive, size)
		if err != nil {
			return nil, err
		}
		if adj > bounds[len(bounds)-1] {
			bounds = append(bounds, adj)
		}
	}
	bounds = append(bounds, size)
	return bounds, nil
}

// adjustBoundary returns the first record boundary at or after pos. It
// walks record by record from prev, a known record boundary, so the
// quote state is always tracked from the start of a record.
func (s *Scanner) adjustBoundary(src byteSource, prev, pos, size int64) (int64, error) {
	end := pos + boundaryWindow
	if end > size {
		end = size
	}
	window, err := src.ReadRange(prev, end)
	if err != nil {
		return 0, celecterr.IO(err, "reading %s near offset %d", s.path, pos)
	}
	off := 0
	for prev+int64(off) < pos && off < len(window) {
		off = FindRecordBoundary(window, off)
	}
	return prev + int64(off), nil
}

func (s *Scanner) scanChunk(
	src byteSource,
	start, end int64,
	cols []int,
	pool *catalog.BatchPool,
	opts ScanOptions,
	emit func(*value.Batch) error,
	sinkMu *sync.Mutex,
	malformed *atomic.Int64,
) error {
	data, err := src.ReadRange(start, end)
	if err != nil {
		return celecterr.IO(err, "reading %s [%d,%d)", s.path, start, end)
	}

	tok := NewTokenizer(data, 0, len(data))
	batch, slot := pool.Get()
	defer func() { pool.Return(slot) }()

	flush := func() error {
		if batch.N == 0 {
			return nil
		}
		sinkMu.Lock()
		err := emit(batch)
		sinkMu.Unlock()
		pool.Return(slot)
		batch, slot = pool.Get()
		return err
	}

	for {
		if opts.Stop != nil && opts.Stop.Load() {
			return celecterr.Cancelled()
		}
		if opts.RowBudget != nil && opts.RowBudget.Load() <= 0 {
			return flush()
		}

		fields, ok := tok.Next()
		if !ok {
			break
		}

		// A row whose field count doesn't match the header is malformed
		// (spec §4.2): dropped from the batch, not padded or truncated,
		// and counted rather than failing the scan.
		if len(fields) != len(s.schema.Fields) {
			malformed.Add(1)
			continue
		}

		for ci, colIdx := range cols {
			appendToken(&batch.Columns[ci], fields[colIdx])
		}
		batch.N++

		if opts.RowBudget != nil {
			opts.RowBudget.Add(-1)
		}

		if batch.N >= s.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}
