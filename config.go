package shapeset

import (
	"fmt"

	"github.com/hupe1980/shapeset/persistence"
	"github.com/hupe1980/shapeset/samplestore"
)

// DefaultLabels are the classes of the drawing page.
var DefaultLabels = []string{"estrella", "corazon", "rombo"}

// Config is the immutable configuration of a Service.
type Config struct {
	// Labels is the ordered set of recognized classes.
	Labels []string

	// Compression of persisted artifacts.
	Compression persistence.Compression

	// Workers is the number of samples decoded in parallel by one build.
	// If 0, defaults to GOMAXPROCS.
	Workers int

	// MemoryLimitBytes caps the size of feature matrices assembled at once.
	// If 0, unlimited.
	MemoryLimitBytes int64

	// IngestPerSecond limits accepted uploads per second. If 0, unlimited.
	IngestPerSecond float64

	// IngestBurst is the number of uploads accepted in a burst.
	IngestBurst int

	// ArtifactCacheBytes bounds the in-memory cache of persisted artifacts
	// served for download. If 0, artifacts are read from storage every time.
	ArtifactCacheBytes int64
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	labels := make([]string, len(DefaultLabels))
	copy(labels, DefaultLabels)
	return Config{
		Labels:      labels,
		Compression: persistence.CompressionNone,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if len(c.Labels) == 0 {
		return fmt.Errorf("%w: no labels", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Labels))
	for _, label := range c.Labels {
		if err := samplestore.ValidateLabel(label); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidConfig, label)
		}
		seen[label] = struct{}{}
	}
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative workers %d", ErrInvalidConfig, c.Workers)
	}
	if c.MemoryLimitBytes < 0 {
		return fmt.Errorf("%w: negative memory limit %d", ErrInvalidConfig, c.MemoryLimitBytes)
	}
	if c.ArtifactCacheBytes < 0 {
		return fmt.Errorf("%w: negative artifact cache size %d", ErrInvalidConfig, c.ArtifactCacheBytes)
	}
	if c.IngestPerSecond < 0 {
		return fmt.Errorf("%w: negative ingest rate %v", ErrInvalidConfig, c.IngestPerSecond)
	}
	return nil
}
