package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CageChen/treeview/internal/config"
	"github.com/CageChen/treeview/internal/fs"
	"github.com/CageChen/treeview/internal/walker"
)

func TestPrefix(t *testing.T) {
	assert.Equal(t, "|--", Prefix(1))
	assert.Equal(t, "|--   |--", Prefix(2))
	assert.Equal(t, "|--   |--   |--", Prefix(3))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "[0KB]"},
		{500, "[0KB]"},
		{1023, "[0KB]"},
		{1024, "[1KB]"},
		{2047, "[1KB]"},
		{2048, "[2KB]"},
		{10 * 1024 * 1024, "[10240KB]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.size), "size %d", tt.size)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "main.go", DisplayName("main.go"))
	assert.Equal(t, "说明.md", DisplayName("说明.md"))
	assert.Equal(t, UnknownName, DisplayName("bad\xff\xfe"))
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "./src/main.go", DisplayPath("./src/main.go"))
	assert.Equal(t, "./bad\uFFFD/x", DisplayPath("./bad\xff\xfe/x"))
	assert.True(t, utf8.ValidString(DisplayPath("./\xc3")))
}

func TestLine_Precedence(t *testing.T) {
	file := walker.Entry{Path: "./src/main.go", Name: "main.go", Depth: 2, Kind: fs.KindFile, Size: 2048}
	dir := walker.Entry{Path: "./src", Name: "src", Depth: 1, Kind: fs.KindDir, Size: 4096}
	unknown := walker.Entry{Path: "./x", Name: "x", Depth: 1, Kind: fs.KindUnknown}

	tests := []struct {
		name  string
		entry walker.Entry
		opts  config.Options
		want  string
	}{
		{"name only", file, config.Options{}, "|--   |--main.go"},
		{"size on file", file, config.Options{ShowSize: true}, "|--   |--main.go [2KB]"},
		{"size ignored for dir", dir, config.Options{ShowSize: true}, "|--src"},
		{"size ignored for unknown", unknown, config.Options{ShowSize: true}, "|--x"},
		{"full path", file, config.Options{ShowFullPath: true}, "|--   |--./src/main.go"},
		{"full path beats size", file, config.Options{ShowFullPath: true, ShowSize: true}, "|--   |--./src/main.go"},
		{"undecodable name", walker.Entry{Name: "\xff", Depth: 1, Kind: fs.KindFile}, config.Options{}, "|--" + UnknownName},
		{"full path undecodable", walker.Entry{Path: "./bad\xff", Name: "bad\xff", Depth: 1, Kind: fs.KindFile}, config.Options{ShowFullPath: true}, "|--./bad\uFFFD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.entry, tt.opts))
		})
	}
}

func TestRun_LocalTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "pkg", "a.go"), make([]byte, 2047), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), make([]byte, 2048), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), nil, 0o644))

	opts := *config.DefaultOptions()
	opts.ShowSize = true

	var buf bytes.Buffer
	err := New(&buf, opts).Run(walker.New(fs.NewLocalFS(root), opts).Entries())
	require.NoError(t, err)

	assert.Equal(t, ".\n"+
		"|--README.md [2KB]\n"+
		"|--src\n"+
		"|--   |--pkg\n"+
		"|--   |--   |--a.go [1KB]\n", buf.String())
}

func TestRun_FullPathNeverShowsSize(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.bin"), make([]byte, 4096), 0o644))

	opts := *config.DefaultOptions()
	opts.ShowSize = true
	opts.ShowFullPath = true

	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Run(walker.New(fs.NewLocalFS(root), opts).Entries()))
	assert.Equal(t, ".\n|--./big.bin\n", buf.String())
	assert.NotContains(t, buf.String(), "KB]")
}

func TestRun_UndecodableNameStaysValidUTF8(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad\xff"), nil, 0o644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}

	opts := *config.DefaultOptions()
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Run(walker.New(fs.NewLocalFS(root), opts).Entries()))
	assert.Equal(t, ".\n|--unknown file\n", buf.String())

	opts.ShowFullPath = true
	buf.Reset()
	require.NoError(t, New(&buf, opts).Run(walker.New(fs.NewLocalFS(root), opts).Entries()))
	assert.Equal(t, ".\n|--./bad\uFFFD\n", buf.String())
	assert.True(t, utf8.Valid(buf.Bytes()))
}

func TestRun_EmptyTreePrintsHeader(t *testing.T) {
	opts := *config.DefaultOptions()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Run(walker.New(fs.NewLocalFS(t.TempDir()), opts).Entries()))
	assert.Equal(t, ".\n", buf.String())
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > 1 {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestRun_StopsOnWriteError(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	opts := *config.DefaultOptions()

	w := &failingWriter{}
	err := New(w, opts).Run(walker.New(fs.NewLocalFS(root), opts).Entries())
	assert.EqualError(t, err, "broken pipe")
	assert.Equal(t, 2, w.writes)
}
