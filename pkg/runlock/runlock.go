// Package runlock keeps two collectfiles processes from writing into the same
// output directory at the same time.
package runlock

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for an output directory.
var ErrLocked = errors.New("output directory is in use by another run")

// Lock is an exclusive advisory lock tied to one output directory.
type Lock struct {
	flock *flock.Flock
	dir   string
}

// PathFor returns the lock file used for outputDir. Lock files live in
// lockDir rather than in the output tree so they never show up as collected
// files or collision hazards. Symlinks are resolved so every spelling of the
// same directory maps to one lock.
func PathFor(lockDir, outputDir string) (string, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
	}
	canonical, err := resolveExisting(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical))
	return filepath.Join(lockDir, fmt.Sprintf("collectfiles-%016x.lock", h.Sum64())), nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path
// and appends the not-yet-created remainder unchanged.
func resolveExisting(path string) (string, error) {
	path = filepath.Clean(path)
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return filepath.Join(append([]string{path}, missing...)...), nil
		}
		missing = append([]string{filepath.Base(path)}, missing...)
		path = parent
	}
}

// Acquire takes the lock for outputDir without blocking. Lock files are kept
// under os.TempDir().
func Acquire(outputDir string) (*Lock, error) {
	return AcquireIn(os.TempDir(), outputDir)
}

// AcquireIn is Acquire with an explicit lock file directory.
func AcquireIn(lockDir, outputDir string) (*Lock, error) {
	path, err := PathFor(lockDir, outputDir)
	if err != nil {
		return nil, err
	}

	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrLocked, outputDir)
	}
	return &Lock{flock: fl, dir: outputDir}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Release unlocks. The lock file itself is left in place: removing it would
// let a waiting process lock an inode that a new process no longer sees.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock for %s: %w", l.dir, err)
	}
	return nil
}
