// File: pkg/collect/copy.go
package collect

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Copier duplicates file content along with permission bits and modification time.
type Copier struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewCopier creates a copier operating on fsys.
func NewCopier(fsys afero.Fs, logger *zap.Logger) *Copier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{fs: fsys, logger: logger}
}

// Copy copies src to dst. dst must not exist: it is created exclusively, so
// an existing file is never overwritten and the error wraps fs.ErrExist.
// A partially written dst is removed before returning an error.
func (c *Copier) Copy(src, dst string) (err error) {
	info, err := c.fs.Stat(src)
	if err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}

	in, err := c.fs.Open(src)
	if err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}
	defer in.Close()

	perm := info.Mode().Perm()
	out, err := c.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}

	defer func() {
		if err == nil {
			return
		}
		if rmErr := c.fs.Remove(dst); rmErr != nil {
			c.logger.Warn("Failed to remove partial copy", zap.String("target", dst), zap.Error(rmErr))
		}
	}()

	written, copyErr := io.Copy(out, in)
	if copyErr != nil {
		copyErr = fmt.Errorf("write %s: %w", dst, copyErr)
	}
	if err := multierr.Append(copyErr, out.Close()); err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}

	// OpenFile's mode is subject to the umask.
	if err := c.fs.Chmod(dst, perm); err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}
	mtime := info.ModTime()
	if err := c.fs.Chtimes(dst, mtime, mtime); err != nil {
		return &FileError{Kind: ErrCopy, Path: src, Err: err}
	}

	c.logger.Debug("Copied file",
		zap.String("source", src),
		zap.String("target", dst),
		zap.Int64("bytes", written))
	return nil
}
