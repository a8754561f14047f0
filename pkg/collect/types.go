// File: pkg/collect/types.go
package collect

// FileEntry describes one regular file discovered under the source root.
type FileEntry struct {
	Path    string // Absolute path of the source file
	RelPath string // Path relative to the source root, OS separators
	Depth   int    // Number of directory segments between the source root and the file
}

// Name returns the base filename of the entry.
func (e FileEntry) Name() string {
	return baseName(e.RelPath)
}

// Dir returns the entry's directory relative to the source root ("" for the root itself).
func (e FileEntry) Dir() string {
	return dirName(e.RelPath)
}

// Placement records where a single source file ended up.
type Placement struct {
	Source      string // Source path relative to the input root
	Destination string // Destination path relative to the output root
	Renamed     bool   // True when a numeric suffix was applied
}

// Result summarizes a completed collection run.
type Result struct {
	Files      int         // Number of files copied
	Renamed    int         // Number of files that received a numeric suffix
	Placements []Placement // Per-file placements in walk order
}

// Constants
const (
	// maxResolveAttempts bounds how often a destination is re-resolved when
	// the exclusive create loses a race against an outside writer.
	maxResolveAttempts = 8
)
