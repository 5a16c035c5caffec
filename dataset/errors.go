package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/shapeset/feature"
)

var (
	// ErrEmptyDataset is returned when no samples exist in any class.
	ErrEmptyDataset = errors.New("dataset: no samples")

	// ErrShapeMismatch is matched by every *ShapeMismatchError.
	ErrShapeMismatch = errors.New("dataset: shape mismatch")

	// ErrInvalidDataset is returned by New for inconsistent inputs.
	ErrInvalidDataset = errors.New("dataset: invalid dataset")

	// ErrInvalidVector is returned when an extractor yields a vector whose
	// length disagrees with its shape.
	ErrInvalidVector = errors.New("dataset: vector length does not match shape")
)

// ShapeMismatchError reports a sample whose dimensions differ from the first one.
type ShapeMismatchError struct {
	Sample   string
	Expected feature.Shape
	Actual   feature.Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("dataset: shape mismatch: sample %q is %s, expected %s", e.Sample, e.Actual, e.Expected)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// SampleError annotates a read or extraction failure with the sample name.
type SampleError struct {
	Sample string
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("dataset: sample %q: %v", e.Sample, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }
