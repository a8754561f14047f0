package collect

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyPreservesContentAndMetadata(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.sh")
	dst := filepath.Join(dir, "dst.sh")

	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0o600))
	require.NoError(t, os.Chmod(src, 0o750))
	mtime := time.Date(2020, time.March, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, NewCopier(afero.NewOsFs(), nil).Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	assert.WithinDuration(t, mtime, info.ModTime(), time.Second)
}

func TestCopyNeverOverwrites(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.txt", []byte("new"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/out/a.txt", []byte("old"), 0o644))

	err := NewCopier(fsys, nil).Copy("/src/a.txt", "/out/a.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCopy)
	assert.ErrorIs(t, err, os.ErrExist)

	data, err := afero.ReadFile(fsys, "/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestCopyMissingSource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/out", 0o755))

	err := NewCopier(fsys, nil).Copy("/src/missing.txt", "/out/missing.txt")
	assert.ErrorIs(t, err, ErrCopy)
	assert.ErrorIs(t, err, os.ErrNotExist)

	exists, err := afero.Exists(fsys, "/out/missing.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCopyMissingDestinationDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

	err := NewCopier(afero.NewOsFs(), nil).Copy(src, filepath.Join(dir, "nope", "a.txt"))
	assert.ErrorIs(t, err, ErrCopy)

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, src, fileErr.Path)
}
