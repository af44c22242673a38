// Package config handles loading the shelf configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shelf/internal/table"

	"github.com/BurntSushi/toml"
)

// Navigation modes.
const (
	ModeLocal = "local"
	ModeQuery = "query"
)

// Config represents the shelf configuration.
type Config struct {
	Data  DataConfig  `toml:"data"`
	Table TableConfig `toml:"table"`
	Log   LogConfig   `toml:"log"`

	// Computed paths (not from config file)
	HomeDir  string `toml:"-"`
	FilePath string `toml:"-"`
}

// DataConfig holds storage configuration.
type DataConfig struct {
	DBPath string `toml:"db_path"`
}

// TableConfig holds the products table settings.
type TableConfig struct {
	PageSize       int    `toml:"page_size"`
	PageSizes      []int  `toml:"page_sizes"`
	WindowSize     int    `toml:"window_size"`
	SearchDebounce string `toml:"search_debounce"` // e.g. "120ms"
	Mode           string `toml:"mode"`            // "local" or "query"
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultHome returns the default shelf home directory.
// Respects SHELF_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("SHELF_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shelf"
	}
	return filepath.Join(home, ".shelf")
}

// Default returns the configuration used when no file exists.
func Default(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Data: DataConfig{
			DBPath: filepath.Join(homeDir, "shelf.db"),
		},
		Table: TableConfig{
			PageSize:       10,
			PageSizes:      []int{5, 10, 20, 50},
			WindowSize:     5,
			SearchDebounce: table.DefaultSearchDebounce.String(),
			Mode:           ModeLocal,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "shelf.log"),
		},
	}
}

// Load reads the configuration from path. An empty path means
// <home>/config.toml, which may be absent; an explicit path must exist.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	}
	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := Default(homeDir)
	cfg.FilePath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Data.DBPath = expandPath(cfg.Data.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)
	return cfg, nil
}

// Normalize replaces invalid table settings with defaults and returns a
// description of each replacement.
func (c *Config) Normalize() []string {
	def := Default(c.HomeDir).Table
	var fixed []string

	if c.Table.PageSize <= 0 {
		fixed = append(fixed, fmt.Sprintf("page_size %d is not positive, using %d", c.Table.PageSize, def.PageSize))
		c.Table.PageSize = def.PageSize
	}

	sizes := c.Table.PageSizes[:0:0]
	for _, s := range c.Table.PageSizes {
		if s > 0 {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) != len(c.Table.PageSizes) {
		fixed = append(fixed, "dropped non-positive page_sizes entries")
	}
	if len(sizes) == 0 {
		sizes = def.PageSizes
	}
	if !containsInt(sizes, c.Table.PageSize) {
		sizes = append(sizes, c.Table.PageSize)
	}
	c.Table.PageSizes = sizes

	if c.Table.WindowSize <= 0 {
		fixed = append(fixed, fmt.Sprintf("window_size %d is not positive, using %d", c.Table.WindowSize, def.WindowSize))
		c.Table.WindowSize = def.WindowSize
	}

	if d, err := time.ParseDuration(c.Table.SearchDebounce); err != nil || d <= 0 {
		fixed = append(fixed, fmt.Sprintf("search_debounce %q is invalid, using %s", c.Table.SearchDebounce, def.SearchDebounce))
		c.Table.SearchDebounce = def.SearchDebounce
	}

	mode := strings.ToLower(strings.TrimSpace(c.Table.Mode))
	if mode != ModeLocal && mode != ModeQuery {
		fixed = append(fixed, fmt.Sprintf("mode %q is unknown, using %s", c.Table.Mode, ModeLocal))
		mode = ModeLocal
	}
	c.Table.Mode = mode

	return fixed
}

// Debounce returns the parsed search debounce.
func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Table.SearchDebounce)
	if err != nil || d <= 0 {
		return table.DefaultSearchDebounce
	}
	return d
}

// EnsureHomeDir creates the home directory if it doesn't exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0700)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
