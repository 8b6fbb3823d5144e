// Package markdown exports a rendered tree as a Markdown document or as
// standalone HTML produced by Goldmark with Chroma highlighting.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultStyle is the Chroma style used for the tree block.
const DefaultStyle = "github"

// Exporter converts tree text into Markdown or HTML.
type Exporter struct {
	md goldmark.Markdown
}

// NewExporter creates an Exporter. Styles are inlined so the HTML needs no stylesheet.
func NewExporter(style string) *Exporter {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Exporter{md: md}
}

// Document wraps tree in a fenced text block under a level-one heading.
func Document(title, tree string) []byte {
	fence := strings.Repeat("`", max(3, longestRun(tree, '`')+1))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", title)
	buf.WriteString(fence + "text\n")
	buf.WriteString(tree)
	if !strings.HasSuffix(tree, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(fence + "\n")
	return buf.Bytes()
}

// HTML converts the Markdown document for tree into a complete HTML page.
func (e *Exporter) HTML(title, tree string) (string, error) {
	var body bytes.Buffer
	if err := e.md.Convert(Document(title, tree), &body); err != nil {
		return "", err
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// WriteMarkdown writes the Markdown document for tree to w.
func (e *Exporter) WriteMarkdown(w io.Writer, title, tree string) error {
	_, err := w.Write(Document(title, tree))
	return err
}

// WriteHTML writes the HTML page for tree to w.
func (e *Exporter) WriteHTML(w io.Writer, title, tree string) error {
	page, err := e.HTML(title, tree)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}
