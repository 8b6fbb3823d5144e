package fs

import (
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem using the local filesystem.
type LocalFS struct {
	root string
}

// NewLocalFS creates a LocalFS rooted at the given directory.
func NewLocalFS(root string) *LocalFS {
	return &LocalFS{root: root}
}

// Root returns the directory the LocalFS was created with.
func (l *LocalFS) Root() string {
	return l.root
}

// Abs returns the host path for a backend path.
func (l *LocalFS) Abs(path string) string {
	if path == "" || path == "." {
		return l.root
	}
	return filepath.Join(l.root, filepath.FromSlash(path))
}

// Stat returns metadata for the node at path. Symbolic links are reported
// as KindOther and are never followed.
func (l *LocalFS) Stat(path string) (FileInfo, error) {
	info, err := os.Lstat(l.Abs(path))
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name: info.Name(),
		Kind: kindOf(info.Mode()),
		Size: info.Size(),
	}, nil
}

// ReadDir lists the immediate children of the directory at path, sorted by name.
func (l *LocalFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(l.Abs(path))
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, len(entries))
	for i, e := range entries {
		result[i] = DirEntry{Name: e.Name(), IsDir: e.IsDir()}
	}
	return result, nil
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}
