// Package persistence provides the binary on-disk format for built datasets.
//
// A saved dataset consists of two artifacts, "dataset/features.bin" and
// "dataset/labels.bin". Each artifact is a 64-byte FileHeader followed by the
// (optionally compressed) payload:
//
//	features: rows*cols little-endian IEEE-754 float64 values, row-major
//	labels:   rows entries of uvarint(len) + UTF-8 bytes
//
// The header carries a CRC32 of the uncompressed payload and a random build ID.
// Both artifacts of one save share the build ID, so a reader that observes
// artifacts from two different saves reports ErrTornDataset instead of
// returning misaligned features and labels.
//
// Artifacts are written through blobstore.BlobStore.Put, which replaces an
// object atomically. A reader never sees a half-written artifact.
package persistence
