package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/shapeset/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	store := NewStore(client, "test-shapeset", "test-prefix/")
	require.NoError(t, store.EnsureBucket(ctx))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "estrella/test.png", data))
	t.Cleanup(func() { _ = store.Delete(context.Background(), "estrella/test.png") })

	got, err := blobstore.ReadAll(ctx, store, "estrella/test.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "estrella/")
	require.NoError(t, err)
	assert.Contains(t, names, "estrella/test.png")

	_, err = store.Open(ctx, "estrella/missing.png")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "bucket", "root/")
	assert.Equal(t, "root/estrella/a.png", s.key("estrella/a.png"))

	s = NewStore(nil, "bucket", "")
	assert.Equal(t, "dataset/labels.bin", s.key("dataset/labels.bin"))
}
