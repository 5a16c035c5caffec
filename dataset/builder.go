package dataset

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hupe1980/shapeset/feature"
	"github.com/hupe1980/shapeset/internal/resource"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Source enumerates and reads raw samples per class.
// *samplestore.Store satisfies Source.
type Source interface {
	// Labels returns the classes in the order their rows appear in a build.
	Labels() []string
	List(ctx context.Context, label string) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// Builder materializes a Dataset from a Source.
type Builder struct {
	src       Source
	extractor feature.Extractor
	rc        *resource.Controller
	workers   int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithExtractor overrides the default alpha channel extractor.
func WithExtractor(e feature.Extractor) BuilderOption {
	return func(b *Builder) {
		b.extractor = e
	}
}

// WithResourceController bounds decode concurrency and matrix memory.
func WithResourceController(rc *resource.Controller) BuilderOption {
	return func(b *Builder) {
		b.rc = rc
	}
}

// WithWorkers sets the number of samples extracted in parallel within one build.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		b.workers = n
	}
}

// NewBuilder creates a Builder reading from src.
func NewBuilder(src Source, optFns ...BuilderOption) *Builder {
	b := &Builder{
		src:       src,
		extractor: feature.AlphaExtractor{},
	}
	for _, fn := range optFns {
		fn(b)
	}
	if b.workers < 1 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b
}

// decodeBytesPerPixel bounds the memory one in-flight decode holds per
// pixel: the decoded image (at most 8 bytes for 16-bit RGBA) plus its vector.
const decodeBytesPerPixel = 16

type sample struct {
	name  string
	label string
	raw   []byte
	shape feature.Shape
}

// Build reads every stored sample and stacks the feature vectors.
//
// Rows follow the configured label order, and within a label the listing
// order of the source. Classes without samples contribute no rows. The first
// sample fixes the expected shape; any other shape fails the build with a
// *ShapeMismatchError. Any read or decode failure aborts the build.
//
// Shapes are read from the image headers before any pixel data is decoded,
// and the memory for the matrix and the in-flight decodes is reserved up
// front, so a mismatch or an oversized sample fails before the expensive
// work starts.
//
// Build takes no lock on the source. A sample ingested while Build is
// listing may or may not be part of the result, and a later Build will
// include it.
func (b *Builder) Build(ctx context.Context) (*Dataset, error) {
	var samples []sample
	for _, label := range b.src.Labels() {
		names, err := b.src.List(ctx, label)
		if err != nil {
			return nil, fmt.Errorf("dataset: list %q: %w", label, err)
		}
		for _, name := range names {
			samples = append(samples, sample{name: name, label: label})
		}
	}
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}

	if err := b.readShapes(ctx, samples); err != nil {
		return nil, err
	}

	expected := samples[0].shape
	for _, s := range samples {
		if s.shape != expected {
			return nil, &ShapeMismatchError{
				Sample:   s.name,
				Expected: expected,
				Actual:   s.shape,
			}
		}
	}

	rows, cols := len(samples), expected.Len()
	size := int64(rows)*int64(cols)*8 + int64(min(b.workers, rows))*int64(cols)*decodeBytesPerPixel
	if err := b.rc.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("dataset: reserve %d bytes for %dx%d matrix: %w", size, rows, cols, err)
	}
	defer b.rc.ReleaseMemory(size)

	data := make([]float64, rows*cols)
	if err := b.extract(ctx, samples, expected, data); err != nil {
		return nil, err
	}

	labels := make([]string, rows)
	for i, s := range samples {
		labels[i] = s.label
	}
	return New(mat.NewDense(rows, cols, data), labels)
}

// readShapes reads every sample and its header shape on a bounded pool.
func (b *Builder) readShapes(ctx context.Context, samples []sample) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range samples {
		s := &samples[i]
		g.Go(func() error {
			raw, err := b.src.Read(gctx, s.name)
			if err != nil {
				return &SampleError{Sample: s.name, Err: err}
			}
			shape, err := b.extractor.Shape(raw)
			if err != nil {
				return &SampleError{Sample: s.name, Err: err}
			}
			s.raw, s.shape = raw, shape
			return nil
		})
	}
	return g.Wait()
}

// extract decodes all samples on a bounded pool. Sample i fills row i of data.
func (b *Builder) extract(ctx context.Context, samples []sample, expected feature.Shape, data []float64) error {
	cols := expected.Len()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range samples {
		s := &samples[i]
		g.Go(func() error {
			if err := b.rc.AcquireDecode(gctx); err != nil {
				return err
			}
			defer b.rc.ReleaseDecode()

			v, err := b.extractor.Extract(s.raw)
			s.raw = nil
			if err != nil {
				return &SampleError{Sample: s.name, Err: err}
			}
			if v.Shape != expected {
				return &ShapeMismatchError{Sample: s.name, Expected: expected, Actual: v.Shape}
			}
			if len(v.Values) != cols {
				return &SampleError{
					Sample: s.name,
					Err:    fmt.Errorf("%w: %d values for shape %s", ErrInvalidVector, len(v.Values), v.Shape),
				}
			}
			copy(data[i*cols:(i+1)*cols], v.Values)
			return nil
		})
	}
	return g.Wait()
}
