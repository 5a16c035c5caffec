package shapeset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/shapeset/blobstore"
	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/feature"
	"github.com/hupe1980/shapeset/internal/cache"
	"github.com/hupe1980/shapeset/internal/resource"
	"github.com/hupe1980/shapeset/persistence"
	"github.com/hupe1980/shapeset/samplestore"
)

// Service ingests samples and materializes datasets.
// It is safe for concurrent use.
type Service struct {
	cfg       Config
	samples   *samplestore.Store
	builder   *dataset.Builder
	artifacts *persistence.Store
	rc        *resource.Controller
	logger    *Logger
	metrics   MetricsCollector

	// buildMu serializes build+save so the two artifact writes of
	// concurrent builds never interleave.
	buildMu sync.Mutex
}

// New creates a Service storing samples and artifacts in blobs.
func New(cfg Config, blobs blobstore.BlobStore, optFns ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if blobs == nil {
		return nil, fmt.Errorf("%w: nil blob store", ErrInvalidConfig)
	}

	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		extractor:        feature.AlphaExtractor{},
	}
	for _, fn := range optFns {
		fn(&o)
	}

	samples, err := samplestore.New(blobs, cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes: cfg.MemoryLimitBytes,
		MaxDecodeWorkers: int64(cfg.Workers),
		IngestPerSecond:  cfg.IngestPerSecond,
		IngestBurst:      cfg.IngestBurst,
	})

	return &Service{
		cfg:     cfg,
		samples: samples,
		builder: dataset.NewBuilder(samples,
			dataset.WithExtractor(o.extractor),
			dataset.WithResourceController(rc),
			dataset.WithWorkers(cfg.Workers),
		),
		artifacts: persistence.NewStore(blobs,
			persistence.WithCompression(cfg.Compression),
			persistence.WithCache(cache.NewLRU(cfg.ArtifactCacheBytes)),
		),
		rc:        rc,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}, nil
}

// Config returns the configuration the Service was created with.
func (s *Service) Config() Config { return s.cfg }

// Labels returns the recognized labels in configured order.
func (s *Service) Labels() []string { return s.samples.Labels() }

// AllowIngest reports whether the ingest rate limit admits one more upload now.
func (s *Service) AllowIngest() bool { return s.rc.AllowIngest() }

// Ingest stores raw as a new sample of label and returns its name.
// The payload is not validated; undecodable samples fail the next Build.
func (s *Service) Ingest(ctx context.Context, label string, raw []byte) (string, error) {
	start := time.Now()
	name, err := s.samples.Ingest(ctx, label, raw)
	s.metrics.RecordIngest(len(raw), time.Since(start), err)
	s.logger.LogIngest(ctx, label, name, len(raw), err)
	return name, err
}

// Counts returns the number of stored samples per label, zero included.
// Counts reflects the current store state; a concurrent ingest may or may
// not be counted.
func (s *Service) Counts(ctx context.Context) (map[string]int, error) {
	return s.samples.Counts(ctx)
}

// Build materializes all current samples and persists the result.
//
// A failed build or save leaves the previously saved dataset in place.
// Samples ingested while Build runs may or may not be included. Concurrent calls
// run one after another.
func (s *Service) Build(ctx context.Context) (*dataset.Dataset, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	ds, err := s.builder.Build(ctx)
	if err != nil {
		s.metrics.RecordBuild(0, time.Since(start), err)
		s.logger.LogBuild(ctx, 0, 0, err)
		return nil, err
	}
	rows, cols := ds.Dims()
	s.metrics.RecordBuild(rows, time.Since(start), nil)
	s.logger.LogBuild(ctx, rows, cols, nil)

	start = time.Now()
	res, err := s.artifacts.Save(ctx, ds)
	size := res.FeaturesBytes + res.LabelsBytes
	s.metrics.RecordSave(size, time.Since(start), err)
	s.logger.LogSave(ctx, res.BuildID.String(), size, err)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Load returns the most recently saved dataset.
func (s *Service) Load(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()
	ds, id, err := s.artifacts.Load(ctx)
	s.metrics.RecordLoad(time.Since(start), err)
	if err != nil {
		s.logger.LogLoad(ctx, "", 0, err)
		return nil, err
	}
	s.logger.LogLoad(ctx, id.String(), ds.Len(), nil)
	return ds, nil
}

// Artifact returns the raw bytes of one persisted artifact.
// It returns ErrNotFound before the first successful Build.
func (s *Service) Artifact(ctx context.Context, kind persistence.Kind) ([]byte, error) {
	return s.artifacts.Artifact(ctx, kind)
}
