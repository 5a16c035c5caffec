// Package blobstore provides the storage abstraction behind samples and
// dataset artifacts.
//
// BlobStore is the interface for reading and writing whole blobs addressed
// by slash-separated names ("estrella/<uuid>.png", "dataset/features.bin").
// Implementations must be safe for concurrent use, and Put must be atomic:
// a reader observes either the previous blob or the complete new one.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, temp-file-plus-rename writes, mmap reads
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
