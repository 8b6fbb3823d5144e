package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitFS implements FileSystem by reading the tree of a git revision
// (branch, tag, or commit) instead of the working tree.
type GitFS struct {
	ref    string
	prefix string
	tree   *object.Tree
}

// NewGitFS opens the repository containing dir and resolves ref. When dir is
// a subdirectory of the work tree, paths are relative to that subdirectory.
func NewGitFS(dir, ref string) (*GitFS, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(absDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %q: %w", ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree of %s: %w", hash, err)
	}

	prefix := ""
	if wt, err := repo.Worktree(); err == nil {
		rel, err := filepath.Rel(wt.Filesystem.Root(), absDir)
		if err == nil && rel != "." {
			prefix = filepath.ToSlash(rel)
		}
	}

	return &GitFS{ref: ref, prefix: prefix, tree: tree}, nil
}

// Ref returns the revision the GitFS was opened at.
func (g *GitFS) Ref() string {
	return g.ref
}

func (g *GitFS) objPath(path string) string {
	if g.prefix == "" {
		return path
	}
	return Join(g.prefix, path)
}

// Stat returns metadata for the node at path in the revision.
func (g *GitFS) Stat(path string) (FileInfo, error) {
	objPath := g.objPath(path)
	if objPath == "" || objPath == "." {
		return FileInfo{Name: g.ref, Kind: KindDir}, nil
	}

	entry, err := g.tree.FindEntry(objPath)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return FileInfo{}, os.ErrNotExist
		}
		return FileInfo{}, err
	}

	info := FileInfo{Name: entry.Name, Kind: gitKind(entry.Mode)}
	if info.Kind == KindFile {
		size, err := g.tree.Size(objPath)
		if err != nil {
			return FileInfo{}, err
		}
		info.Size = size
	}
	return info, nil
}

// ReadDir lists the immediate children of the directory at path in the revision.
func (g *GitFS) ReadDir(path string) ([]DirEntry, error) {
	tree := g.tree
	if objPath := g.objPath(path); objPath != "" && objPath != "." {
		sub, err := g.tree.Tree(objPath)
		if err != nil {
			if errors.Is(err, object.ErrDirectoryNotFound) {
				return nil, os.ErrNotExist
			}
			return nil, fmt.Errorf("read tree %s: %w", objPath, err)
		}
		tree = sub
	}

	entries := make([]DirEntry, len(tree.Entries))
	for i, e := range tree.Entries {
		entries[i] = DirEntry{Name: e.Name, IsDir: e.Mode == filemode.Dir}
	}
	return entries, nil
}

func gitKind(mode filemode.FileMode) Kind {
	switch mode {
	case filemode.Dir:
		return KindDir
	case filemode.Regular, filemode.Executable, filemode.Deprecated:
		return KindFile
	default:
		return KindOther
	}
}
