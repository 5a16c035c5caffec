package feature

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAlphaChannel is returned for images whose color model carries no alpha.
	ErrNoAlphaChannel = errors.New("image has no alpha channel")

	// ErrEmptyImage is returned for images with zero width or height.
	ErrEmptyImage = errors.New("image has zero area")
)

// DecodeError reports bytes that cannot be turned into a feature vector.
type DecodeError struct {
	Format string // detected format, empty if the bytes could not be decoded
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("feature: decode: %v", e.Err)
	}
	return fmt.Sprintf("feature: decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
