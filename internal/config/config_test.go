package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, FormatText, opts.Format)
	assert.False(t, opts.ShowHidden)
	assert.False(t, opts.ShowDirOnly)
	assert.False(t, opts.ShowFileOnly)
	assert.False(t, opts.ShowFullPath)
	assert.False(t, opts.ShowSize)
	assert.False(t, opts.KindFilterActive())
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treeview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 5\nhidden: true\nsize: true\nformat: markdown\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.MaxDepth)
	assert.True(t, opts.ShowHidden)
	assert.True(t, opts.ShowSize)
	assert.False(t, opts.ShowFullPath)
	assert.Equal(t, FormatMarkdown, opts.Format)
	assert.Equal(t, path, opts.GetConfigFilePath())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treeview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dirs: true\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, opts.MaxDepth)
	assert.Equal(t, FormatText, opts.Format)
	assert.True(t, opts.ShowDirOnly)
	assert.True(t, opts.KindFilterActive())
}

func TestLoadLayersLocalFileOverUserFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(GetConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(GetConfigPath(), []byte("depth: 7\nsize: true\n"), 0o644))
	require.NoError(t, os.WriteFile(LocalConfigName, []byte("depth: 2\nhidden: true\n"), 0o644))

	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.MaxDepth)
	assert.True(t, opts.ShowSize)
	assert.True(t, opts.ShowHidden)
	assert.Equal(t, LocalConfigName, opts.GetConfigFilePath())
}

func TestLoadUserFileOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(GetConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(GetConfigPath(), []byte("files: true\n"), 0o644))

	opts, err := Load("")
	require.NoError(t, err)
	assert.True(t, opts.ShowFileOnly)
	assert.Equal(t, GetConfigPath(), opts.GetConfigFilePath())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: [1, 2\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		err    error
	}{
		{"defaults", func(*Options) {}, nil},
		{"zero depth", func(o *Options) { o.MaxDepth = 0 }, nil},
		{"negative depth", func(o *Options) { o.MaxDepth = -1 }, ErrInvalidDepth},
		{"html", func(o *Options) { o.Format = FormatHTML }, nil},
		{"unknown format", func(o *Options) { o.Format = "pdf" }, ErrUnknownFormat},
		{"watch with ref", func(o *Options) { o.Watch = true; o.Ref = "HEAD" }, ErrWatchWithRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(opts)
			err := opts.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
