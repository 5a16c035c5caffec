package shapeset

import (
	"errors"

	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/feature"
	"github.com/hupe1980/shapeset/internal/resource"
	"github.com/hupe1980/shapeset/persistence"
	"github.com/hupe1980/shapeset/samplestore"
)

var (
	// ErrInvalidConfig is returned by New for unusable configurations.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownLabel is returned when ingesting under an unrecognized label.
	ErrUnknownLabel = samplestore.ErrUnknownLabel

	// ErrEmptySample is returned when ingesting a zero-length payload.
	ErrEmptySample = samplestore.ErrEmptySample

	// ErrNoAlphaChannel is returned for samples without alpha channel.
	ErrNoAlphaChannel = feature.ErrNoAlphaChannel

	// ErrEmptyDataset is returned by Build when no samples exist.
	ErrEmptyDataset = dataset.ErrEmptyDataset

	// ErrShapeMismatch is matched by every *ShapeMismatchError.
	ErrShapeMismatch = dataset.ErrShapeMismatch

	// ErrNotFound is returned when no dataset has been saved yet.
	ErrNotFound = persistence.ErrNotFound

	// ErrTornDataset is returned by Load while a save is in progress.
	ErrTornDataset = persistence.ErrTornDataset

	// ErrMemoryLimitExceeded is returned by Build when the matrix exceeds the memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

type (
	// StorageError reports a failed sample store operation.
	StorageError = samplestore.StorageError

	// DecodeError reports a sample that cannot be turned into features.
	DecodeError = feature.DecodeError

	// ShapeMismatchError reports a sample whose size differs from the first one.
	ShapeMismatchError = dataset.ShapeMismatchError

	// SampleError names the sample a build failed on.
	SampleError = dataset.SampleError

	// ChecksumMismatchError reports a corrupt artifact.
	ChecksumMismatchError = persistence.ChecksumMismatchError
)
