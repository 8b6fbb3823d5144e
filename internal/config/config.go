// Package config manages the options record consumed by the walker and
// renderer, loaded from YAML defaults and overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// DefaultMaxDepth is used when neither the config file nor the flags set a depth.
const DefaultMaxDepth = 3

// LocalConfigName is the per-directory config file looked up in the working directory.
const LocalConfigName = ".treeview.yaml"

var (
	ErrInvalidDepth  = errors.New("depth must not be negative")
	ErrUnknownFormat = errors.New("unknown output format")
	ErrWatchWithRef  = errors.New("--watch cannot be combined with --ref")
)

// Options holds all configuration for a single invocation.
type Options struct {
	MaxDepth     int  `yaml:"depth"`
	ShowHidden   bool `yaml:"hidden"`
	ShowDirOnly  bool `yaml:"dirs"`
	ShowFileOnly bool `yaml:"files"`
	ShowFullPath bool `yaml:"full_path"`
	ShowSize     bool `yaml:"size"`

	// Format selects the output format (text, markdown or html).
	Format string `yaml:"format"`
	// Ref walks a git revision instead of the working tree when set.
	Ref string `yaml:"ref,omitempty"`
	// Watch re-renders the tree whenever the working tree changes.
	Watch   bool `yaml:"watch"`
	Verbose bool `yaml:"verbose"`

	configPath string
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() *Options {
	return &Options{
		MaxDepth: DefaultMaxDepth,
		Format:   FormatText,
	}
}

// GetConfigDir returns the user config directory for treeview.
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/treeview"
	}
	return filepath.Join(home, ".config", "treeview")
}

// GetConfigPath returns the full path to the user config file.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load returns the defaults overlaid with config files. An explicit path
// must exist and is the only file read. Otherwise the user config is applied
// and ./.treeview.yaml is applied on top of it; missing files are skipped.
func Load(path string) (*Options, error) {
	opts := DefaultOptions()

	if path != "" {
		if err := opts.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		opts.configPath = path
		return opts, nil
	}

	for _, candidate := range []string{GetConfigPath(), LocalConfigName} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := opts.loadFromFile(candidate); err != nil {
			return nil, fmt.Errorf("load config %s: %w", candidate, err)
		}
		opts.configPath = candidate
	}

	return opts, nil
}

func (o *Options) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, o)
}

// GetConfigFilePath returns the last config file the options were read from, if any.
func (o *Options) GetConfigFilePath() string {
	return o.configPath
}

// Validate checks the options before the pipeline starts.
func (o *Options) Validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, o.MaxDepth)
	}
	if !slices.Contains([]string{FormatText, FormatMarkdown, FormatHTML}, o.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, o.Format)
	}
	if o.Watch && o.Ref != "" {
		return ErrWatchWithRef
	}
	return nil
}

// KindFilterActive reports whether display is restricted by node kind.
func (o Options) KindFilterActive() bool {
	return o.ShowDirOnly || o.ShowFileOnly
}
