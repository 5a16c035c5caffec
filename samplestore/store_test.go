package samplestore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/shapeset/blobstore"
	"github.com/hupe1980/shapeset/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\nrest-of-the-image")

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(blobstore.NewMemoryStore(), []string{"estrella", "corazon", "rombo"})
	require.NoError(t, err)
	return s
}

func TestNew_InvalidLabels(t *testing.T) {
	blobs := blobstore.NewMemoryStore()

	tests := []struct {
		name   string
		labels []string
	}{
		{"empty set", nil},
		{"empty label", []string{"a", ""}},
		{"slash", []string{"a/b"}},
		{"dotdot", []string{".."}},
		{"duplicate", []string{"a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(blobs, tt.labels)
			require.ErrorIs(t, err, ErrInvalidLabel)
		})
	}
}

func TestStore_IngestThenList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, err := s.List(ctx, "estrella")
	require.NoError(t, err)
	require.Empty(t, before)
	require.NotNil(t, before)

	name, err := s.Ingest(ctx, "estrella", pngMagic)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "samples/estrella/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	after, err := s.List(ctx, "estrella")
	require.NoError(t, err)
	assert.Equal(t, []string{name}, after)

	n, err := s.Count(ctx, "estrella")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Read(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, got)
}

func TestStore_IngestDoesNotOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Ingest(ctx, "rombo", []byte("first"))
	require.NoError(t, err)
	b, err := s.Ingest(ctx, "rombo", []byte("second"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	n, err := s.Count(ctx, "rombo")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.Read(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
}

func TestStore_UnknownLabel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Ingest(ctx, "triangulo", pngMagic)
	require.ErrorIs(t, err, ErrUnknownLabel)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ingest", se.Op)
	assert.Equal(t, "triangulo", se.Label)

	_, err = s.List(ctx, "triangulo")
	require.ErrorIs(t, err, ErrUnknownLabel)

	all, err := s.blobs.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_EmptySample(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Ingest(context.Background(), "estrella", nil)
	require.ErrorIs(t, err, ErrEmptySample)
}

func TestStore_CountsIncludesEmptyClasses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"estrella": 0, "corazon": 0, "rombo": 0}, counts)

	_, err = s.Ingest(ctx, "corazon", pngMagic)
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "corazon", pngMagic)
	require.NoError(t, err)

	counts, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"estrella": 0, "corazon": 2, "rombo": 0}, counts)
}

func TestStore_FailedIngestLeavesNothing(t *testing.T) {
	root := t.TempDir()
	faulty := fs.NewFaultyFS(fs.Default)
	faulty.AddRule("estrella", fs.Fault{FailAfterBytes: 4})

	s, err := New(blobstore.NewLocalStore(root, blobstore.WithFileSystem(faulty)), []string{"estrella"})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Ingest(ctx, "estrella", pngMagic)
	require.Error(t, err)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ingest", se.Op)
	assert.True(t, errors.Is(err, fs.ErrInjected))

	n, err := s.Count(ctx, "estrella")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ConcurrentIngest(t *testing.T) {
	s, err := New(blobstore.NewLocalStore(t.TempDir()), []string{"estrella", "corazon"})
	require.NoError(t, err)
	ctx := context.Background()

	const perLabel = 16
	var wg sync.WaitGroup
	for _, label := range []string{"estrella", "corazon"} {
		for range perLabel {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Ingest(ctx, label, pngMagic)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"estrella": perLabel, "corazon": perLabel}, counts)
}

func TestStore_ReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "samples/estrella/missing.png")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "read", se.Op)
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"\x89PNG\r\n\x1a\n....":        ".png",
		"GIF89a....":                   ".gif",
		"\xff\xd8\xff\xe0....":         ".jpg",
		"BM......":                     ".bmp",
		"II*\x00....":                  ".tiff",
		"RIFF\x00\x00\x00\x00WEBPVP8 ": ".webp",
		"plain text":                   ".img",
	}
	for raw, want := range tests {
		assert.Equal(t, want, extension([]byte(raw)), "payload %q", raw)
	}
}
