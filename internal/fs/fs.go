// Package fs provides filesystem abstractions for walking either the local
// working tree or a tree stored at a git revision.
package fs

import "strings"

// Kind classifies a filesystem node.
type Kind int

// Node kinds. KindUnknown is used when metadata could not be read.
const (
	KindUnknown Kind = iota
	KindFile
	KindDir
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// FileInfo holds node metadata.
type FileInfo struct {
	Name string
	Kind Kind
	Size int64
}

// IsDir reports whether the node is a directory.
func (fi FileInfo) IsDir() bool { return fi.Kind == KindDir }

// IsFile reports whether the node is a regular file.
func (fi FileInfo) IsFile() bool { return fi.Kind == KindFile }

// DirEntry represents a single directory entry. IsDir comes from the
// listing itself and does not require a metadata lookup.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem abstracts directory listing and metadata lookup so the walker
// can traverse either the local filesystem or a git object database.
//
// Paths are slash-separated and relative to the backend root; "" names the
// root itself.
type FileSystem interface {
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]DirEntry, error)
}

// Join appends name to a slash-separated backend path.
func Join(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

// IsHiddenName reports whether name carries the hidden-file marker.
// The special entries "." and ".." are not hidden.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
