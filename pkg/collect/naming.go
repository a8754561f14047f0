// File: pkg/collect/naming.go
package collect

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// NameResolver picks destination filenames that do not collide with anything
// already present in a target directory.
//
// A name is taken when it exists on the filesystem or has been claimed
// during this run. Claims keep resolution correct even if the filesystem
// view lags behind, and they are guarded by a mutex so concurrent callers
// serialize per resolver.
type NameResolver struct {
	mu      sync.Mutex
	fs      afero.Fs
	claimed map[string]map[string]struct{} // target directory -> claimed names
	logger  *zap.Logger
}

// NewNameResolver creates a resolver operating on fsys.
func NewNameResolver(fsys afero.Fs, logger *zap.Logger) *NameResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameResolver{
		fs:      fsys,
		claimed: make(map[string]map[string]struct{}),
		logger:  logger,
	}
}

// Resolve returns filename if it is free in dir, otherwise the first free
// candidate of stem+"1"+ext, stem+"2"+ext, ... It does not claim the result;
// calling it twice against the same state yields the same name.
func (r *NameResolver) Resolve(dir, filename string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir = filepath.Clean(dir)
	taken, err := r.taken(dir, filename)
	if err != nil {
		return "", err
	}
	if !taken {
		return filename, nil
	}

	stem, ext := splitName(filename)
	for n := 1; ; n++ {
		candidate := stem + strconv.Itoa(n) + ext
		taken, err := r.taken(dir, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			r.logger.Debug("Resolved name collision",
				zap.String("target", dir),
				zap.String("requested", filename),
				zap.String("resolvedName", candidate))
			return candidate, nil
		}
	}
}

// Claim marks name as used in dir for the rest of the run.
func (r *NameResolver) Claim(dir, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir = filepath.Clean(dir)
	names, ok := r.claimed[dir]
	if !ok {
		names = make(map[string]struct{})
		r.claimed[dir] = names
	}
	names[name] = struct{}{}
}

// taken reports whether name is claimed or present in dir. Callers hold r.mu.
func (r *NameResolver) taken(dir, name string) (bool, error) {
	if _, ok := r.claimed[dir][name]; ok {
		return true, nil
	}

	path := filepath.Join(dir, name)
	var err error
	if lst, ok := r.fs.(afero.Lstater); ok {
		_, _, err = lst.LstatIfPossible(path)
	} else {
		_, err = r.fs.Stat(path)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &FileError{Kind: ErrCopy, Path: path, Err: err}
	}
}

// splitName splits filename at its final dot. A dot at the very start
// (".bashrc") or the very end ("notes.") does not start an extension.
func splitName(filename string) (stem, ext string) {
	ext = filepath.Ext(filename)
	if ext == "." || ext == filename {
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}
