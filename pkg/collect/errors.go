package collect

import (
	"errors"
	"fmt"
)

// Error kinds reported by a collection run. Use errors.Is to classify.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDirectoryCreate = errors.New("failed to create directory")
	ErrCopy            = errors.New("failed to copy file")
)

// FileError ties a failure to the path it happened on.
type FileError struct {
	Kind error  // One of the Err* kinds above
	Path string // Source file or directory involved
	Err  error  // Underlying cause
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
