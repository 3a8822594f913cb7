package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrMissing indicates the artifact file does not exist.
	ErrMissing = errors.New("artifact not found")

	// ErrIncompatibleVersion indicates the artifact was written by an
	// incompatible format version.
	ErrIncompatibleVersion = errors.New("incompatible artifact format version")
)

// LoadError indicates a dataset or model artifact could not be loaded
// because it is missing, unreadable or corrupt.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError wraps err, translating a missing file into ErrMissing.
func NewLoadError(path string, err error) *LoadError {
	if isNotExist(err) && !errors.Is(err, ErrMissing) {
		err = fmt.Errorf("%w: %w", ErrMissing, err)
	}
	return &LoadError{Path: path, Err: err}
}
