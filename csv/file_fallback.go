//go:build !unix

package csv

import "os"

// readerAtSource falls back to buffered ReadAt chunk reads on
// platforms without unix mmap, following the teacher's
// io.FileReader.ReadAt pattern (io/file_reader.go) directly.
type readerAtSource struct {
	f    *os.File
	size int64
}

func newByteSource(f *os.File, size int64) (byteSource, error) {
	return &readerAtSource{f: f, size: size}, nil
}

func (r *readerAtSource) ReadRange(start, end int64) ([]byte, error) {
	buf := make([]byte, end-start)
	if _, err := r.f.ReadAt(buf, start); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *readerAtSource) Size() int64 { return r.size }

func (r *readerAtSource) Close() error { return r.f.Close() }
