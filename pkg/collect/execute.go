// File: pkg/collect/execute.go
package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Collector copies every file under an input directory into an output
// directory, placing each file according to TargetDirectory and naming it
// with a NameResolver so no copy overwrites another.
type Collector struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewCollector creates a collector operating on fsys.
func NewCollector(fsys afero.Fs, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{fs: fsys, logger: logger}
}

// Run walks opts.InputDir and copies each file in walk order. The first
// failure aborts the run; files copied before it stay in place.
func (c *Collector) Run(opts Options) (Result, error) {
	var result Result
	startTime := time.Now()

	// Reject impossible options before touching the filesystem
	if err := opts.Validate(); err != nil {
		return result, err
	}
	opts, err := opts.absolute()
	if err != nil {
		return result, err
	}
	// The input must be an existing directory distinct from the output
	if err := c.checkInput(opts); err != nil {
		c.logger.Error("Invalid input directory", zap.String("directory", opts.InputDir), zap.Error(err))
		return result, err
	}

	logger := c.logger.With(zap.String("source", opts.InputDir), zap.String("output", opts.OutputDir))
	if opts.MaxDepth != nil {
		logger = logger.With(zap.Int("maxDepth", *opts.MaxDepth))
	}
	logger.Info("Starting collection process")

	// Ensure the output root exists even if no file is collected
	if err := c.ensureDirectory(opts.OutputDir); err != nil {
		return result, err
	}

	// Never collect our own output when it lives inside the input
	walker := NewTreeWalker(c.fs, opts.InputDir, logger)
	if isWithin(opts.OutputDir, opts.InputDir) {
		walker.Skip(opts.OutputDir)
	}
	resolver := NewNameResolver(c.fs, logger)
	copier := NewCopier(c.fs, logger)

	// Place files one at a time so every name check sees the previous copies
	for entry, err := range walker.Entries() {
		if err != nil {
			logger.Error("Failed to traverse input directory", zap.Error(err))
			return result, err
		}

		placement, err := c.place(entry, opts, resolver, copier)
		if err != nil {
			logger.Error("Failed to collect file", zap.String("relPath", entry.RelPath), zap.Error(err))
			return result, err
		}

		result.Files++
		if placement.Renamed {
			result.Renamed++
		}
		result.Placements = append(result.Placements, placement)
	}

	logger.Info("Collection process completed",
		zap.Int("totalFiles", result.Files),
		zap.Int("renamedFiles", result.Renamed),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

// place copies a single entry into its target directory under a free name.
func (c *Collector) place(entry FileEntry, opts Options, resolver *NameResolver, copier *Copier) (Placement, error) {
	targetRel := TargetDirectory(entry.RelPath, opts.MaxDepth)
	targetDir := filepath.Join(opts.OutputDir, targetRel)

	// An input nested in the output can map a preserved directory back onto
	// the input tree, which must stay untouched
	if targetDir == opts.InputDir || isWithin(targetDir, opts.InputDir) {
		return Placement{}, &FileError{
			Kind: ErrInvalidInput,
			Path: entry.Path,
			Err:  fmt.Errorf("target directory %s lies inside the input directory", targetDir),
		}
	}

	// Create the target directory and any missing parents
	if err := c.ensureDirectory(targetDir); err != nil {
		return Placement{}, err
	}

	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		// Pick a name nothing in the target directory uses yet
		name, err := resolver.Resolve(targetDir, entry.Name())
		if err != nil {
			return Placement{}, err
		}

		err = copier.Copy(entry.Path, filepath.Join(targetDir, name))
		if errors.Is(err, fs.ErrExist) {
			// Someone else created the name between Resolve and Copy.
			c.logger.Warn("Destination appeared during copy, resolving again",
				zap.String("target", targetDir),
				zap.String("resolvedName", name))
			resolver.Claim(targetDir, name)
			continue
		}
		if err != nil {
			return Placement{}, err
		}

		// Record the name so later files in this run skip it
		resolver.Claim(targetDir, name)
		return Placement{
			Source:      entry.RelPath,
			Destination: filepath.Join(targetRel, name),
			Renamed:     name != entry.Name(),
		}, nil
	}

	return Placement{}, &FileError{
		Kind: ErrCopy,
		Path: entry.Path,
		Err:  fmt.Errorf("no free destination name in %s after %d attempts", targetDir, maxResolveAttempts),
	}
}

// checkInput verifies that the input directory exists, is a directory, and
// is not also the output directory.
func (c *Collector) checkInput(opts Options) error {
	info, err := c.fs.Stat(opts.InputDir)
	if err != nil {
		return &FileError{Kind: ErrInvalidInput, Path: opts.InputDir, Err: err}
	}
	if !info.IsDir() {
		return &FileError{Kind: ErrInvalidInput, Path: opts.InputDir, Err: errors.New("not a directory")}
	}
	if opts.InputDir == opts.OutputDir {
		return &FileError{Kind: ErrInvalidInput, Path: opts.InputDir, Err: errors.New("input and output directory are the same")}
	}
	return nil
}

// ensureDirectory ensures a directory exists, creating it and its parents if necessary.
func (c *Collector) ensureDirectory(path string) error {
	if err := c.fs.MkdirAll(path, os.ModePerm); err != nil {
		c.logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return &FileError{Kind: ErrDirectoryCreate, Path: path, Err: err}
	}
	c.logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// isWithin reports whether path lies strictly inside dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
