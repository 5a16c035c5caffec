package persistence

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/shapeset/blobstore"
	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/internal/cache"
)

const (
	// DefaultPrefix is the blob prefix of the dataset artifacts.
	DefaultPrefix = "dataset"

	FeaturesName = "features.bin"
	LabelsName   = "labels.bin"
)

var (
	// ErrNotFound is returned when no dataset has been saved yet.
	ErrNotFound = errors.New("persistence: dataset not found")

	// ErrTornDataset is returned when the two artifacts come from different saves.
	ErrTornDataset = errors.New("persistence: features and labels belong to different builds")
)

// NewBuildID returns a random build ID.
func NewBuildID() BuildID {
	return BuildID(uuid.New())
}

func (id BuildID) String() string {
	return uuid.UUID(id).String()
}

// Store saves and loads datasets on a BlobStore.
type Store struct {
	blobs       blobstore.BlobStore
	prefix      string
	compression Compression
	cache       *cache.LRU

	// gen counts saves; reads that overlap a save are not cached.
	cacheMu sync.Mutex
	gen     uint64
}

// Option configures a Store.
type Option func(*Store)

// WithCompression selects the payload compression of saved artifacts.
// Loading detects the compression from the header.
func WithCompression(c Compression) Option {
	return func(s *Store) {
		s.compression = c
	}
}

// WithCache keeps recently read artifacts in c. Save invalidates them, so
// the cache is only coherent while this Store is the sole writer.
func WithCache(c *cache.LRU) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

// NewStore creates a dataset Store on blobs.
func NewStore(blobs blobstore.BlobStore, optFns ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		prefix: DefaultPrefix,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Name returns the blob name of an artifact kind.
func (s *Store) Name(kind Kind) string {
	switch kind {
	case KindFeatures:
		return path.Join(s.prefix, FeaturesName)
	case KindLabels:
		return path.Join(s.prefix, LabelsName)
	default:
		return ""
	}
}

// SaveResult describes a completed save.
type SaveResult struct {
	BuildID       BuildID
	FeaturesBytes int
	LabelsBytes   int
}

// Save writes both artifacts of ds and replaces any previous save.
//
// Both artifacts are fully encoded before the first write. Features are
// written before labels; a concurrent Load that observes only the first
// write reports ErrTornDataset. If the labels write fails, the previous
// features artifact is put back (or the new one removed when there was
// none), so a failed save leaves the previous dataset in place.
func (s *Store) Save(ctx context.Context, ds *dataset.Dataset) (SaveResult, error) {
	id := NewBuildID()

	features, err := EncodeFeatures(ds.Features(), id, s.compression)
	if err != nil {
		return SaveResult{}, err
	}
	labels, err := EncodeLabels(ds.Labels(), id, s.compression)
	if err != nil {
		return SaveResult{}, err
	}

	featuresName := s.Name(KindFeatures)
	prev, err := blobstore.ReadAll(ctx, s.blobs, featuresName)
	hadPrev := err == nil
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return SaveResult{}, fmt.Errorf("persistence: read previous features: %w", err)
	}

	defer s.invalidate()

	if err := s.blobs.Put(ctx, featuresName, features); err != nil {
		return SaveResult{}, fmt.Errorf("persistence: write features: %w", err)
	}
	if err := s.blobs.Put(ctx, s.Name(KindLabels), labels); err != nil {
		werr := fmt.Errorf("persistence: write labels: %w", err)
		if rerr := s.rollback(context.WithoutCancel(ctx), featuresName, prev, hadPrev); rerr != nil {
			return SaveResult{}, errors.Join(werr, fmt.Errorf("persistence: restore features: %w", rerr))
		}
		return SaveResult{}, werr
	}

	return SaveResult{
		BuildID:       id,
		FeaturesBytes: len(features),
		LabelsBytes:   len(labels),
	}, nil
}

// rollback restores the features artifact that was current before a save.
func (s *Store) rollback(ctx context.Context, name string, prev []byte, hadPrev bool) error {
	if !hadPrev {
		return s.blobs.Delete(ctx, name)
	}
	return s.blobs.Put(ctx, name, prev)
}

// Load reads and validates the most recently saved dataset.
func (s *Store) Load(ctx context.Context) (*dataset.Dataset, BuildID, error) {
	fdata, err := s.Artifact(ctx, KindFeatures)
	if err != nil {
		return nil, BuildID{}, err
	}
	ldata, err := s.Artifact(ctx, KindLabels)
	if err != nil {
		return nil, BuildID{}, err
	}

	features, fh, err := DecodeFeatures(fdata)
	if err != nil {
		return nil, BuildID{}, fmt.Errorf("persistence: decode features: %w", err)
	}
	labels, lh, err := DecodeLabels(ldata)
	if err != nil {
		return nil, BuildID{}, fmt.Errorf("persistence: decode labels: %w", err)
	}

	if fh.BuildID != lh.BuildID {
		return nil, BuildID{}, fmt.Errorf("%w: features %s, labels %s", ErrTornDataset, fh.BuildID, lh.BuildID)
	}
	if fh.Rows != lh.Rows {
		return nil, BuildID{}, fmt.Errorf("%w: %d feature rows, %d labels", ErrCorrupt, fh.Rows, lh.Rows)
	}

	ds, err := dataset.New(features, labels)
	if err != nil {
		return nil, BuildID{}, err
	}
	return ds, fh.BuildID, nil
}

// Artifact returns the raw bytes of one persisted artifact for download.
func (s *Store) Artifact(ctx context.Context, kind Kind) ([]byte, error) {
	name := s.Name(kind)
	if name == "" {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint8(kind))
	}

	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	s.cacheMu.Lock()
	gen := s.gen
	s.cacheMu.Unlock()

	data, err := blobstore.ReadAll(ctx, s.blobs, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
		}
		return nil, fmt.Errorf("persistence: read %s: %w", name, err)
	}

	s.cacheMu.Lock()
	if s.gen == gen {
		s.cache.Set(name, data)
	}
	s.cacheMu.Unlock()
	return data, nil
}

func (s *Store) invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	s.cache.InvalidatePrefix(s.prefix + "/")
}
