// Package render turns walker entries into the indented text tree.
package render

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CageChen/treeview/internal/config"
	"github.com/CageChen/treeview/internal/walker"
)

const (
	// Header is printed once before any entry and stands for the root.
	Header = "."
	// Branch prefixes every entry line.
	Branch = "|--"
	// Nested is repeated once per level below the first.
	Nested = "   |--"
	// UnknownName replaces names that are not displayable text.
	UnknownName = "unknown file"
)

// Prefix returns the branch marker for an entry at depth (depth >= 1).
func Prefix(depth int) string {
	if depth < 1 {
		return ""
	}
	return Branch + strings.Repeat(Nested, depth-1)
}

// FormatSize renders a byte count as whole kibibytes, truncating.
func FormatSize(size int64) string {
	return "[" + strconv.FormatInt(size/1024, 10) + "KB]"
}

// DisplayName returns name, or UnknownName when it is not valid UTF-8.
func DisplayName(name string) string {
	if !utf8.ValidString(name) {
		return UnknownName
	}
	return name
}

// DisplayPath returns path with invalid UTF-8 sequences replaced by U+FFFD.
func DisplayPath(path string) string {
	return strings.ToValidUTF8(path, "\uFFFD")
}

// Line formats a single entry without a trailing newline. The first
// matching rule wins: full path, then name with size for files, then name.
func Line(e walker.Entry, opts config.Options) string {
	prefix := Prefix(e.Depth)
	switch {
	case opts.ShowFullPath:
		return prefix + DisplayPath(e.Path)
	case opts.ShowSize && e.IsFile():
		return prefix + DisplayName(e.Name) + " " + FormatSize(e.Size)
	default:
		return prefix + DisplayName(e.Name)
	}
}

// Renderer writes one line per entry.
type Renderer struct {
	w    io.Writer
	opts config.Options
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts config.Options) *Renderer {
	return &Renderer{w: w, opts: opts}
}

// Header writes the root line.
func (r *Renderer) Header() error {
	_, err := fmt.Fprintln(r.w, Header)
	return err
}

// Render writes the line for e.
func (r *Renderer) Render(e walker.Entry) error {
	_, err := fmt.Fprintln(r.w, Line(e, r.opts))
	return err
}

// Run writes the header and then each entry as it is pulled from entries.
// A write error stops the walk and is returned.
func (r *Renderer) Run(entries iter.Seq[walker.Entry]) error {
	if err := r.Header(); err != nil {
		return err
	}
	for e := range entries {
		if err := r.Render(e); err != nil {
			return err
		}
	}
	return nil
}
