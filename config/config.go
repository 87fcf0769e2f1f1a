// Package config holds celect's tunables, generalized from the
// teacher's manager.ManagerConfig (a plain struct handed to
// manager.New) into a struct loaded from CELECT_* environment
// variables with functional-option overrides for embedding.
package config

import (
	"os"
	"runtime"
	"strconv"

	"celect/bits"
)

// MaxBatchSize is the hard ceiling on batch_size: validity and
// selection bitmaps are fixed-width bits.Bitfield values sized to
// exactly this many rows.
const MaxBatchSize = bits.BitCapacity

const (
	DefaultBatchSize  = 4096
	DefaultSampleRows = 1024
)

// Config holds celect's tunables (spec.md §6).
type Config struct {
	// Parallelism is the number of CSV scan workers. Default: hardware
	// concurrency.
	Parallelism int

	// BatchSize is the number of rows per emitted batch. Default 4096,
	// capped at MaxBatchSize.
	BatchSize int

	// SampleRows is how many rows Phase A samples to infer column
	// types. Default 1024.
	SampleRows int
}

// Option mutates a Config during construction.
type Option func(*Config)

func WithParallelism(p int) Option { return func(c *Config) { c.Parallelism = p } }
func WithBatchSize(n int) Option   { return func(c *Config) { c.BatchSize = n } }
func WithSampleRows(n int) Option  { return func(c *Config) { c.SampleRows = n } }

// Default returns the default config, then applies env var overrides
// (CELECT_PARALLELISM, CELECT_BATCH_SIZE, CELECT_SAMPLE_ROWS), then any
// supplied Options, in that priority order (Options win).
func Default(opts ...Option) Config {
	c := Config{
		Parallelism: runtime.GOMAXPROCS(0),
		BatchSize:   DefaultBatchSize,
		SampleRows:  DefaultSampleRows,
	}

	if v, ok := envInt("CELECT_PARALLELISM"); ok {
		c.Parallelism = v
	}
	if v, ok := envInt("CELECT_BATCH_SIZE"); ok {
		c.BatchSize = v
	}
	if v, ok := envInt("CELECT_SAMPLE_ROWS"); ok {
		c.SampleRows = v
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.Parallelism < 1 {
		c.Parallelism = 1
	}
	if c.BatchSize < 1 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchSize > MaxBatchSize {
		c.BatchSize = MaxBatchSize
	}
	if c.SampleRows < 1 {
		c.SampleRows = DefaultSampleRows
	}

	return c
}

func envInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
