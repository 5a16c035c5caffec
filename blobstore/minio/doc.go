// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage server. This package uses the
// official MinIO Go client and works with other S3-compatible systems such
// as Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "shapes", "samples/")
//	if err := store.EnsureBucket(ctx); err != nil { ... }
//	svc, err := shapeset.New(cfg, store)
package minio
