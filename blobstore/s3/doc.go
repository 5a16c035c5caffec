// Package s3 provides an Amazon S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "shapes/")
//
// # Features
//
//   - Range reads for ReadAt
//   - Uploads through the feature/s3/manager uploader (multipart for large artifacts)
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// S3 PutObject is atomic per object, which is what blobstore.BlobStore.Put requires.
package s3
