// Package shapeset collects labeled drawings and turns them into a dataset.
//
// Users draw simple shapes on a canvas and submit them under a class label.
// The Service stores every drawing as a sample, and on demand materializes all
// samples into one feature matrix plus a parallel label vector, which is
// persisted for download.
//
// # Quick Start
//
//	ctx := context.Background()
//	svc, _ := shapeset.New(shapeset.DefaultConfig(), blobstore.NewLocalStore("./data"))
//
//	name, _ := svc.Ingest(ctx, "estrella", pngBytes)
//	counts, _ := svc.Counts(ctx) // map[corazon:0 estrella:1 rombo:0]
//
//	ds, err := svc.Build(ctx)
//	if errors.Is(err, shapeset.ErrEmptyDataset) {
//		// nothing ingested yet
//	}
//	fmt.Println(ds.Summary()) // Dataset ready. X.shape = (1, 784), y.shape = (1,)
//
// # Storage
//
// Samples and artifacts live on a blobstore.BlobStore. The local store writes
// atomically via temp file and rename; MinIO and S3 backends live in
// blobstore/minio and blobstore/s3.
//
// # Features
//
// Every pixel contributes its 8-bit alpha value. Images are not resized, so all
// samples of one build must share the same width and height; otherwise Build
// fails with a *ShapeMismatchError.
package shapeset
