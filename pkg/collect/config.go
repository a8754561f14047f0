// File: pkg/collect/config.go
package collect

import (
	"fmt"
	"path/filepath"
)

// Options holds the configuration for a collection run.
type Options struct {
	InputDir  string // Directory to collect files from
	OutputDir string // Directory the copies are placed in; created if missing
	MaxDepth  *int   // Directory levels preserved below the output root; nil flattens fully
}

// DepthLimit returns a pointer to d, for building Options literals.
func DepthLimit(d int) *int {
	return &d
}

// Validate checks the options for values that can never produce a valid run.
// Filesystem checks on the input directory happen in the Collector.
func (o Options) Validate() error {
	if o.InputDir == "" {
		return fmt.Errorf("%w: input directory is empty", ErrInvalidInput)
	}
	if o.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidInput)
	}
	if o.MaxDepth != nil && *o.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must be non-negative, got %d", ErrInvalidInput, *o.MaxDepth)
	}
	return nil
}

// absolute returns a copy of the options with both directories made absolute and cleaned.
func (o Options) absolute() (Options, error) {
	in, err := filepath.Abs(o.InputDir)
	if err != nil {
		return o, fmt.Errorf("%w: failed to resolve input directory %q: %v", ErrInvalidInput, o.InputDir, err)
	}
	out, err := filepath.Abs(o.OutputDir)
	if err != nil {
		return o, fmt.Errorf("%w: failed to resolve output directory %q: %v", ErrInvalidInput, o.OutputDir, err)
	}
	o.InputDir = in
	o.OutputDir = out
	return o, nil
}
