// Package csv implements the parallel CSV scanner (Phase A/B/C): header
// and type inference, quote-aware byte-range partitioning, and batch
// emission. Grounded on the teacher's io.FileReader abstraction
// (io/file_reader.go), generalized from fixed-offset disk-slab reads to
// arbitrary CSV byte ranges, and on the teacher's worker-pool pattern
// (manager/manager_worker_processor.go) generalized to one
// golang.org/x/sync/errgroup.Group per scan.
package csv

import "os"

// byteSource exposes a read-only view over a file's bytes by range.
// The unix build backs this with a memory-mapped region (zero-copy
// ReadRange); other platforms fall back to os.File.ReadAt.
type byteSource interface {
	ReadRange(start, end int64) ([]byte, error)
	Size() int64
	Close() error
}

func openByteSource(path string) (byteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return newByteSource(f, info.Size())
}
