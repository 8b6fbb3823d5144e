// Package walker produces the lazy, depth-bounded, pre-order sequence of
// entries below a root directory.
//
// Two predicates run at different points of the walk. The visibility filter
// runs before an entry is visited: a hidden directory is pruned together
// with its whole subtree. The kind filter runs only when deciding whether to
// yield an entry: a directory rejected by kind is still descended into.
package walker

import (
	"iter"

	"github.com/rs/zerolog"

	"github.com/CageChen/treeview/internal/config"
	"github.com/CageChen/treeview/internal/fs"
)

// RootPath is the display path of the traversal root.
const RootPath = "."

// Entry is a filesystem node visited during a walk.
type Entry struct {
	// Path is the slash-joined path from the root, starting with "./".
	Path  string
	Name  string
	Depth int
	Kind  fs.Kind
	// Size is the byte length; only meaningful for files, 0 when unknown.
	Size int64
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == fs.KindDir }

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Kind == fs.KindFile }

// Walker traverses a FileSystem from its root.
type Walker struct {
	fsys   fs.FileSystem
	opts   config.Options
	logger zerolog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger reports skipped entries to logger at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker over fsys. Without WithLogger, failures are skipped silently.
func New(fsys fs.FileSystem, opts config.Options, options ...Option) *Walker {
	w := &Walker{
		fsys:   fsys,
		opts:   opts,
		logger: zerolog.Nop(),
	}
	for _, o := range options {
		o(w)
	}
	return w
}

// Visible reports whether an entry passes the visibility filter. The root
// (depth 0) is always visible.
func (w *Walker) Visible(name string, depth int) bool {
	return w.opts.ShowHidden || depth == 0 || !fs.IsHiddenName(name)
}

// Accepts reports whether an entry passes the kind filter. Entries of
// unknown kind only pass when no kind filter is active.
func (w *Walker) Accepts(e Entry) bool {
	if !w.opts.KindFilterActive() {
		return true
	}
	return (w.opts.ShowDirOnly && e.IsDir()) || (w.opts.ShowFileOnly && e.IsFile())
}

// Entries returns the accepted entries with 1 <= depth <= MaxDepth in
// pre-order, siblings in listing order. The sequence reads the filesystem
// as it is pulled; stopping the range stops the walk.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if w.opts.MaxDepth < 1 {
			return
		}
		w.walk("", RootPath, 0, yield)
	}
}

// Dirs returns the backend paths of every directory the walk descends
// into, the root included. Kind filtering does not apply.
func (w *Walker) Dirs() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield("") || w.opts.MaxDepth < 2 {
			return
		}
		w.walkDirs("", 0, yield)
	}
}

func (w *Walker) walk(dir, display string, depth int, yield func(Entry) bool) bool {
	children, err := w.fsys.ReadDir(dir)
	if err != nil {
		w.logger.Debug().Err(err).Str("path", display).Msg("skipping unreadable directory")
		return true
	}

	depth++
	for _, child := range children {
		if !w.Visible(child.Name, depth) {
			continue
		}

		path := fs.Join(dir, child.Name)
		entry := Entry{
			Path:  display + "/" + child.Name,
			Name:  child.Name,
			Depth: depth,
		}
		if info, err := w.fsys.Stat(path); err != nil {
			w.logger.Debug().Err(err).Str("path", entry.Path).Msg("metadata unavailable")
		} else {
			entry.Kind = info.Kind
			entry.Size = info.Size
		}

		if w.Accepts(entry) && !yield(entry) {
			return false
		}

		if child.IsDir && depth < w.opts.MaxDepth {
			if !w.walk(path, entry.Path, depth, yield) {
				return false
			}
		}
	}
	return true
}

func (w *Walker) walkDirs(dir string, depth int, yield func(string) bool) bool {
	children, err := w.fsys.ReadDir(dir)
	if err != nil {
		return true
	}

	depth++
	for _, child := range children {
		if !child.IsDir || !w.Visible(child.Name, depth) {
			continue
		}
		path := fs.Join(dir, child.Name)
		if !yield(path) {
			return false
		}
		if depth+1 < w.opts.MaxDepth {
			if !w.walkDirs(path, depth, yield) {
				return false
			}
		}
	}
	return true
}
