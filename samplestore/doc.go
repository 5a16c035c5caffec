// Package samplestore holds raw per-class drawings on top of a blobstore.
//
// Every sample lives at "samples/<label>/<uuid>.<ext>". The class of a sample
// is implied by its location; samples are never renamed, deduplicated or
// validated. Ingest never overwrites an existing sample because names are
// random UUIDs, and a failed ingest leaves no blob behind because
// blobstore.BlobStore.Put is atomic.
//
//	store, err := samplestore.New(blobs, []string{"estrella", "corazon", "rombo"})
//	name, err := store.Ingest(ctx, "estrella", pngBytes)
//	counts, err := store.Counts(ctx) // map[estrella:1 corazon:0 rombo:0]
package samplestore
