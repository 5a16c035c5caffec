package samplestore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hupe1980/shapeset/blobstore"
)

// DefaultPrefix is the blob prefix below which all samples are stored.
const DefaultPrefix = "samples"

// Store is the per-class sample store.
// It is safe for concurrent use if the underlying BlobStore is.
type Store struct {
	blobs  blobstore.BlobStore
	prefix string
	labels []string
	known  map[string]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

// New creates a Store for the given ordered label set.
func New(blobs blobstore.BlobStore, labels []string, optFns ...Option) (*Store, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels configured", ErrInvalidLabel)
	}

	s := &Store{
		blobs:  blobs,
		prefix: DefaultPrefix,
		labels: make([]string, 0, len(labels)),
		known:  make(map[string]struct{}, len(labels)),
	}
	for _, fn := range optFns {
		fn(s)
	}

	for _, label := range labels {
		if err := ValidateLabel(label); err != nil {
			return nil, err
		}
		if _, dup := s.known[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidLabel, label)
		}
		s.known[label] = struct{}{}
		s.labels = append(s.labels, label)
	}
	return s, nil
}

// ValidateLabel reports whether label can be used as a class directory name.
func ValidateLabel(label string) error {
	if label == "" || label == "." || label == ".." || strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

// Labels returns the configured labels in their configured order.
func (s *Store) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Known reports whether label is part of the configured set.
func (s *Store) Known(label string) bool {
	_, ok := s.known[label]
	return ok
}

func (s *Store) dir(label string) string {
	return path.Join(s.prefix, label) + "/"
}

// Ingest stores raw as a new sample of label and returns its blob name.
func (s *Store) Ingest(ctx context.Context, label string, raw []byte) (string, error) {
	if !s.Known(label) {
		return "", &StorageError{Op: "ingest", Label: label, Err: ErrUnknownLabel}
	}
	if len(raw) == 0 {
		return "", &StorageError{Op: "ingest", Label: label, Err: ErrEmptySample}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", &StorageError{Op: "ingest", Label: label, Err: err}
	}
	name := s.dir(label) + id.String() + extension(raw)

	if err := s.blobs.Put(ctx, name, raw); err != nil {
		return "", &StorageError{Op: "ingest", Label: label, Name: name, Err: err}
	}
	return name, nil
}

// List returns the blob names of all samples of label.
// The order is unspecified. A class without samples yields an empty slice.
func (s *Store) List(ctx context.Context, label string) ([]string, error) {
	if !s.Known(label) {
		return nil, &StorageError{Op: "list", Label: label, Err: ErrUnknownLabel}
	}
	names, err := s.blobs.List(ctx, s.dir(label))
	if err != nil {
		return nil, &StorageError{Op: "list", Label: label, Err: err}
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Count returns the number of samples of label without reading them.
func (s *Store) Count(ctx context.Context, label string) (int, error) {
	names, err := s.List(ctx, label)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Counts returns the sample count of every configured label, zero included.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(s.labels))
	for _, label := range s.labels {
		n, err := s.Count(ctx, label)
		if err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, nil
}

// Read returns the raw bytes of one sample.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := blobstore.ReadAll(ctx, s.blobs, name)
	if err != nil {
		return nil, &StorageError{Op: "read", Name: name, Err: err}
	}
	return data, nil
}

// extension guesses a file extension from the payload's magic bytes.
// Content is not validated; unknown payloads get ".img".
func extension(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		return ".png"
	case bytes.HasPrefix(raw, []byte("GIF87a")), bytes.HasPrefix(raw, []byte("GIF89a")):
		return ".gif"
	case bytes.HasPrefix(raw, []byte("\xff\xd8\xff")):
		return ".jpg"
	case bytes.HasPrefix(raw, []byte("BM")):
		return ".bmp"
	case bytes.HasPrefix(raw, []byte("II*\x00")), bytes.HasPrefix(raw, []byte("MM\x00*")):
		return ".tiff"
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return ".webp"
	default:
		return ".img"
	}
}
