// File: pkg/collect/depth.go
package collect

import (
	"path/filepath"
	"strings"
)

// TargetDirectory maps a file's path relative to the source root onto the
// directory, relative to the output root, that the file is copied into.
// An empty result means the output root itself.
//
// With maxDepth nil or 0 every file lands in the output root. Otherwise the
// first *maxDepth directory segments are preserved and anything nested deeper
// is merged into the directory at exactly that depth.
func TargetDirectory(relPath string, maxDepth *int) string {
	segments := dirSegments(relPath)
	if maxDepth == nil || *maxDepth == 0 || len(segments) == 0 {
		return ""
	}
	if len(segments) > *maxDepth {
		segments = segments[:*maxDepth]
	}
	return filepath.Join(segments...)
}

// Depth returns the number of directory segments in relPath before the filename.
func Depth(relPath string) int {
	return len(dirSegments(relPath))
}

// dirSegments splits the directory part of relPath into its segments.
func dirSegments(relPath string) []string {
	dir := dirName(relPath)
	if dir == "" {
		return nil
	}
	return strings.Split(dir, string(filepath.Separator))
}

// dirName is filepath.Dir with "" instead of "." for files at the root.
func dirName(relPath string) string {
	dir := filepath.Dir(filepath.Clean(relPath))
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}

func baseName(relPath string) string {
	return filepath.Base(relPath)
}
