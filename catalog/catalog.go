// Package catalog caches per-file schema inference so that a query
// touching the same CSV path twice (or concurrently, from several
// queries racing to open the same table) pays the Phase A sample
// cost once. Grounded on the teacher's SlabManager, which keyed a
// singleflight.Group by slab uid to dedupe concurrent disk loads
// (manager/meta/slab_manager.go, manager/meta/load_slab_from_disk.go).
package catalog

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"celect/value"
)

// Infer samples path and returns its inferred schema. Implementations
// live in the csv package; Catalog only caches the result.
type InferFunc func(path string) (value.Schema, error)

// Catalog deduplicates concurrent schema inference for the same path
// and caches the result for the lifetime of the process.
type Catalog struct {
	infer InferFunc

	mu     sync.RWMutex
	schema map[string]value.Schema

	loadGroup singleflight.Group
}

func New(infer InferFunc) *Catalog {
	return &Catalog{
		infer:  infer,
		schema: map[string]value.Schema{},
	}
}

// Schema returns the cached schema for path, inferring and caching it
// on first access. Concurrent callers for the same path block on one
// inference call rather than each sampling the file independently.
func (c *Catalog) Schema(path string) (value.Schema, error) {
	c.mu.RLock()
	if s, ok := c.schema[path]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.loadGroup.Do(path, func() (any, error) {
		s, err := c.infer(path)
		if err != nil {
			return value.Schema{}, err
		}
		c.mu.Lock()
		c.schema[path] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return value.Schema{}, err
	}
	return v.(value.Schema), nil
}

// Invalidate drops a cached schema, forcing the next Schema call for
// path to re-infer it.
func (c *Catalog) Invalidate(path string) {
	c.mu.Lock()
	delete(c.schema, path)
	c.mu.Unlock()
}
