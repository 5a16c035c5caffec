package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRegion_Read(t *testing.T) {
	content := []byte("features.bin")
	r, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, len(content), r.Len())
	data, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, content, data)

	buf := make([]byte, 3)
	n, err := r.ReadAt(buf, 9)
	require.NoError(t, err)
	assert.Equal(t, "bin", string(buf[:n]))

	long := make([]byte, 8)
	n, err = r.ReadAt(long, 9)
	assert.Equal(t, 3, n)
	assert.Equal(t, io.EOF, err)

	n, err = r.ReadAt(buf, 100)
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)

	_, err = r.ReadAt(buf, -1)
	assert.Error(t, err)
}

func TestRegion_EmptyFile(t *testing.T) {
	r, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	defer r.Close()

	assert.Zero(t, r.Len())
	data, err := r.Bytes()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRegion_Close(t *testing.T) {
	r, err := Open(writeFile(t, []byte("labels")))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Bytes()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
