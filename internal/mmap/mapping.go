package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// ErrClosed is returned when reading a Region after Close.
var ErrClosed = errors.New("mmap: region is closed")

// Region is a read-only view of a whole file.
// Reads are safe for concurrent use. The slice returned by Bytes must not be
// touched after Close.
type Region struct {
	data    []byte
	closed  atomic.Bool
	release func([]byte) error
}

// Open maps the file at path. Empty files yield an empty Region without a
// mapping.
func Open(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Region{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("mmap: %s: %d bytes exceed the address space", path, size)
	}

	data, release, err := osMap(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	osAdviseSequential(data)
	return &Region{data: data, release: release}, nil
}

// Close releases the mapping. Calling it again is a no-op.
func (r *Region) Close() error {
	if r.closed.Swap(true) || r.release == nil {
		return nil
	}
	return r.release(r.data)
}

// Bytes returns the mapped file contents, or ErrClosed after Close.
func (r *Region) Bytes() ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	return r.data, nil
}

// Len returns the file size in bytes.
func (r *Region) Len() int { return len(r.data) }

// ReadAt implements io.ReaderAt.
func (r *Region) ReadAt(p []byte, off int64) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("mmap: negative offset %d", off)
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
