package collect

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolverFs(t *testing.T, existing ...string) (afero.Fs, *NameResolver) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/out", 0o755))
	for _, name := range existing {
		require.NoError(t, afero.WriteFile(fsys, "/out/"+name, []byte(name), 0o644))
	}
	return fsys, NewNameResolver(fsys, nil)
}

func TestResolveFreeName(t *testing.T) {
	_, r := newResolverFs(t)

	got, err := r.Resolve("/out", "report.txt")
	require.NoError(t, err)
	assert.Equal(t, "report.txt", got)
}

func TestResolveCollisions(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		request  string
		want     string
	}{
		{"first collision", []string{"name.txt"}, "name.txt", "name1.txt"},
		{"skips used numbers", []string{"name.txt", "name1.txt"}, "name.txt", "name2.txt"},
		{"fills first gap", []string{"name.txt", "name2.txt"}, "name.txt", "name1.txt"},
		{"no extension", []string{"Makefile"}, "Makefile", "Makefile1"},
		{"dotfile has no extension", []string{".bashrc"}, ".bashrc", ".bashrc1"},
		{"only final dot splits", []string{"archive.tar.gz"}, "archive.tar.gz", "archive.tar1.gz"},
		{"trailing dot", []string{"notes."}, "notes.", "notes.1"},
		{"other names do not count", []string{"name1.txt"}, "name.txt", "name.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newResolverFs(t, tt.existing...)
			got, err := r.Resolve("/out", tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIsRepeatable(t *testing.T) {
	_, r := newResolverFs(t, "name.txt", "name1.txt")

	first, err := r.Resolve("/out", "name.txt")
	require.NoError(t, err)
	second, err := r.Resolve("/out", "name.txt")
	require.NoError(t, err)

	assert.Equal(t, "name2.txt", first)
	assert.Equal(t, first, second)
}

func TestResolveSeesClaims(t *testing.T) {
	_, r := newResolverFs(t)

	r.Claim("/out", "name.txt")
	got, err := r.Resolve("/out", "name.txt")
	require.NoError(t, err)
	assert.Equal(t, "name1.txt", got)

	r.Claim("/out/", "name1.txt")
	got, err = r.Resolve("/out", "name.txt")
	require.NoError(t, err)
	assert.Equal(t, "name2.txt", got)

	got, err = r.Resolve("/elsewhere", "name.txt")
	require.NoError(t, err)
	assert.Equal(t, "name.txt", got, "claims are per directory")
}

func TestResolveAvoidsDirectories(t *testing.T) {
	fsys, r := newResolverFs(t)
	require.NoError(t, fsys.MkdirAll("/out/data", 0o755))

	got, err := r.Resolve("/out", "data")
	require.NoError(t, err)
	assert.Equal(t, "data1", got)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, stem, ext string
	}{
		{"report.txt", "report", ".txt"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"Makefile", "Makefile", ""},
		{".bashrc", ".bashrc", ""},
		{"..bashrc", ".", ".bashrc"},
		{"notes.", "notes.", ""},
	}

	for _, tt := range tests {
		stem, ext := splitName(tt.in)
		assert.Equal(t, tt.stem, stem, tt.in)
		assert.Equal(t, tt.ext, ext, tt.in)
	}
}
