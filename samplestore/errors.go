package samplestore

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLabel is returned for labels outside the configured set.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrEmptySample is returned when ingesting a zero-length payload.
	ErrEmptySample = errors.New("empty sample")

	// ErrInvalidLabel is returned by New for labels that cannot name a directory.
	ErrInvalidLabel = errors.New("invalid label")
)

// StorageError reports a failed sample store operation.
//
// The original underlying error can be accessed via errors.Unwrap.
type StorageError struct {
	Op    string // "ingest", "list" or "read"
	Label string
	Name  string
	Err   error
}

func (e *StorageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("samplestore: %s %q: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("samplestore: %s label %q: %v", e.Op, e.Label, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
