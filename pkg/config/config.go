// Package config loads vidnav settings from YAML files and locates
// libraries on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/vidnav/pkg/scan"
)

// StateDirName is the per-library directory holding local state
// (config override, tree state, debug log).
const StateDirName = ".vidnav"

// Config represents a vidnav configuration file
// (~/.config/vidnav/config.yaml or <library>/.vidnav/config.yaml)
type Config struct {
	// Library configures where topic and playlist files live
	Library LibraryConfig `yaml:"library,omitempty" json:"library,omitempty"`

	// Scan configures the playlist builder
	Scan ScanConfig `yaml:"scan,omitempty" json:"scan,omitempty"`

	// Tree configures the tree view
	Tree TreeConfig `yaml:"tree,omitempty" json:"tree,omitempty"`

	// Watch configures reloading on external edits
	Watch WatchConfig `yaml:"watch,omitempty" json:"watch,omitempty"`

	// Discovery configures scanning for libraries (vn -libraries)
	Discovery DiscoveryConfig `yaml:"discovery,omitempty" json:"discovery,omitempty"`
}

// LibraryConfig locates the library
type LibraryConfig struct {
	// Dir is the library directory (default: detected from cwd)
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// PlaylistDir holds generated playlists, relative to Dir (default: playlists)
	PlaylistDir string `yaml:"playlist_dir,omitempty" json:"playlist_dir,omitempty"`
}

// ScanConfig controls which files become playlist entries
type ScanConfig struct {
	// Extensions is the media extension whitelist (default: .mp4 .avi .mkv)
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`
}

// TreeConfig controls the tree view
type TreeConfig struct {
	// ExpandDepth is the depth below which nodes start expanded.
	// 0 collapses everything, 1 expands topics (default: 1)
	ExpandDepth *int `yaml:"expand_depth,omitempty" json:"expand_depth,omitempty"`
}

// WatchConfig controls the file watcher
type WatchConfig struct {
	// Enabled reloads topics edited by other programs (default: true)
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// DebounceMS coalesces bursts of file events (default: 200)
	DebounceMS int `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`
}

// DiscoveryConfig controls library discovery
type DiscoveryConfig struct {
	// ScanPaths are directories searched for libraries
	ScanPaths []string `yaml:"scan_paths,omitempty" json:"scan_paths,omitempty"`

	// MaxDepth limits directory traversal depth (default: 3)
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	depth := 1
	enabled := true
	return Config{
		Library: LibraryConfig{PlaylistDir: "playlists"},
		Scan:    ScanConfig{Extensions: append([]string(nil), scan.DefaultExtensions...)},
		Tree:    TreeConfig{ExpandDepth: &depth},
		Watch:   WatchConfig{Enabled: &enabled, DebounceMS: 200},
		Discovery: DiscoveryConfig{
			MaxDepth: 3,
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Library.PlaylistDir != "" && filepath.IsAbs(c.Library.PlaylistDir) {
		return fmt.Errorf("library.playlist_dir must be relative to the library, got %q", c.Library.PlaylistDir)
	}
	for i, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("scan.extensions[%d]: %q must look like \".mp4\"", i, ext)
		}
	}
	if d := c.Tree.ExpandDepth; d != nil && *d < 0 {
		return fmt.Errorf("tree.expand_depth must be >= 0, got %d", *d)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}

// GetExpandDepth returns the effective expand depth
func (t TreeConfig) GetExpandDepth() int {
	if t.ExpandDepth == nil {
		return 1
	}
	return *t.ExpandDepth
}

// IsEnabled returns whether watching is enabled
func (w WatchConfig) IsEnabled() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}

// merge overlays the non-zero fields of o onto c
func (c *Config) merge(o Config) {
	if o.Library.Dir != "" {
		c.Library.Dir = o.Library.Dir
	}
	if o.Library.PlaylistDir != "" {
		c.Library.PlaylistDir = o.Library.PlaylistDir
	}
	if len(o.Scan.Extensions) > 0 {
		c.Scan.Extensions = o.Scan.Extensions
	}
	if o.Tree.ExpandDepth != nil {
		c.Tree.ExpandDepth = o.Tree.ExpandDepth
	}
	if o.Watch.Enabled != nil {
		c.Watch.Enabled = o.Watch.Enabled
	}
	if o.Watch.DebounceMS != 0 {
		c.Watch.DebounceMS = o.Watch.DebounceMS
	}
	if len(o.Discovery.ScanPaths) > 0 {
		c.Discovery.ScanPaths = o.Discovery.ScanPaths
	}
	if o.Discovery.MaxDepth != 0 {
		c.Discovery.MaxDepth = o.Discovery.MaxDepth
	}
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.merge(file)
	return nil
}

// Load builds the effective configuration: defaults, then the user file,
// then the library's .vidnav/config.yaml. An explicit path replaces the
// user file and must exist. Missing implicit files are ignored.
func Load(explicitPath, libraryDir string) (*Config, error) {
	cfg := DefaultConfig()

	userPath := explicitPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	if userPath != "" {
		if err := cfg.overlayFile(userPath); err != nil {
			if explicitPath != "" || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	dir := libraryDir
	if dir == "" {
		dir = cfg.Library.Dir
	}
	if dir != "" {
		libPath := filepath.Join(expandHome(dir), StateDirName, "config.yaml")
		if err := cfg.overlayFile(libPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// UserConfigPath returns ~/.config/vidnav/config.yaml (or the platform
// equivalent), or "" when no config directory is known.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vidnav", "config.yaml")
}

// ExampleConfig returns a documented configuration for `vn -init-config`
func ExampleConfig() Config {
	cfg := DefaultConfig()
	cfg.Library.Dir = "~/Videos/library"
	cfg.Discovery.ScanPaths = []string{"~/Videos"}
	return cfg
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ExpandHome resolves a leading ~ in path
func ExpandHome(path string) string {
	return expandHome(path)
}
