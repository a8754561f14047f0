// File: pkg/collect/traversal.go
package collect

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// errStopWalk unwinds afero.Walk when the consumer stops iterating.
var errStopWalk = errors.New("walk stopped")

// TreeWalker enumerates the regular files under a source root.
//
// Directories are visited in lexical order so that collision suffixes are
// assigned reproducibly. Symbolic links are emitted when they resolve to a
// regular file; links to directories are not descended and broken links are
// skipped.
type TreeWalker struct {
	fs     afero.Fs
	root   string
	skip   string
	logger *zap.Logger
}

// NewTreeWalker creates a walker over root. The filesystem is wrapped
// read-only so the walk can never modify the source tree.
func NewTreeWalker(fsys afero.Fs, root string, logger *zap.Logger) *TreeWalker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeWalker{
		fs:     afero.NewReadOnlyFs(fsys),
		root:   filepath.Clean(root),
		logger: logger,
	}
}

// Skip excludes dir and everything below it from the walk. It is used when
// the output root lives inside the source root.
func (w *TreeWalker) Skip(dir string) {
	w.skip = filepath.Clean(dir)
}

// Entries returns the files under the root as a lazy sequence. A walk error
// is yielded once as the final element.
func (w *TreeWalker) Entries() iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		stopped := false

		err := afero.Walk(w.fs, w.root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				w.logger.Error("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				return &FileError{Kind: ErrCopy, Path: path, Err: err}
			}

			if info.IsDir() {
				if w.skip != "" && path == w.skip && path != w.root {
					w.logger.Debug("Skipping output directory nested in source", zap.String("directory", path))
					return filepath.SkipDir
				}
				return nil
			}

			if !w.isRegular(path, info) {
				return nil
			}

			relPath, err := filepath.Rel(w.root, path)
			if err != nil {
				return &FileError{Kind: ErrCopy, Path: path, Err: err}
			}

			entry := FileEntry{Path: path, RelPath: relPath, Depth: Depth(relPath)}
			w.logger.Debug("Discovered file",
				zap.String("relPath", entry.RelPath),
				zap.Int("depth", entry.Depth))

			if !yield(entry, nil) {
				stopped = true
				return errStopWalk
			}
			return nil
		})

		if stopped || err == nil {
			return
		}
		yield(FileEntry{}, err)
	}
}

// isRegular reports whether path should be collected as a regular file.
func (w *TreeWalker) isRegular(path string, info fs.FileInfo) bool {
	mode := info.Mode()
	if mode.IsRegular() {
		return true
	}

	if mode&fs.ModeSymlink == 0 {
		w.logger.Debug("Skipping special file", zap.String("path", path), zap.Stringer("mode", mode))
		return false
	}

	target, err := w.fs.Stat(path)
	if err != nil {
		w.logger.Debug("Skipping broken symlink", zap.String("path", path), zap.Error(err))
		return false
	}
	if !target.Mode().IsRegular() {
		w.logger.Debug("Skipping symlink to non-regular file", zap.String("path", path))
		return false
	}
	return true
}
