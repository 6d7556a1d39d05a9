// Package config reads optional default-flag configuration for grepr.
// Supports both global (~/.config/grepr/config.yaml) and local
// (.grepr.yaml in the current working directory; parent directories are
// not searched) scope, following the teacher's
// internal/config package shape (scope enum, YAML, Validate, global vs.
// local path resolution) but holding grep's own default knobs (colour
// mode, context counts, binary policy, palette overrides) instead of the
// teacher's author/sync/limits fields.
//
// Reading: uses local if it exists, otherwise global, otherwise built-in
// defaults — absence of both files reproduces classic grep's behaviour
// exactly, since this is read-only input, not persisted state.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.config/grepr/config.yaml (default).
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .grepr.yaml (current working directory).
	ScopeLocal
)

// Defaults holds the default CLI flag values a config file may override.
type Defaults struct {
	// Colour is one of "auto", "always", "never". Empty means unset.
	Colour string `yaml:"colour,omitempty"`

	BeforeContext *int `yaml:"before_context,omitempty"`
	AfterContext  *int `yaml:"after_context,omitempty"`

	// Binary is one of "binary", "text", "without-match". Empty means unset.
	Binary string `yaml:"binary,omitempty"`

	// Palette overrides individual GREP_COLORS keys (ms, mc, sl, cx, fn,
	// ln, bn, se, ne, rv) before the GREP_COLORS environment variable (if
	// any) is applied on top.
	Palette map[string]string `yaml:"palette,omitempty"`
}

// Config contains grepr's optional default-flags configuration.
type Config struct {
	Defaults Defaults `yaml:"defaults,omitempty"`

	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
func (c *Config) Validate() error {
	switch c.Defaults.Colour {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%w: colour must be auto, always, or never, got %q", ErrInvalidValue, c.Defaults.Colour)
	}
	switch c.Defaults.Binary {
	case "", "binary", "text", "without-match":
	default:
		return fmt.Errorf("%w: binary must be binary, text, or without-match, got %q", ErrInvalidValue, c.Defaults.Binary)
	}
	if c.Defaults.BeforeContext != nil && *c.Defaults.BeforeContext < 0 {
		return fmt.Errorf("%w: before_context must be >= 0, got %d", ErrInvalidValue, *c.Defaults.BeforeContext)
	}
	if c.Defaults.AfterContext != nil && *c.Defaults.AfterContext < 0 {
		return fmt.Errorf("%w: after_context must be >= 0, got %d", ErrInvalidValue, *c.Defaults.AfterContext)
	}
	return nil
}

// BeforeContext returns the configured default before-context count, or 0.
func (c *Config) BeforeContext() int {
	if c.Defaults.BeforeContext == nil {
		return 0
	}
	return *c.Defaults.BeforeContext
}

// AfterContext returns the configured default after-context count, or 0.
func (c *Config) AfterContext() int {
	if c.Defaults.AfterContext == nil {
		return 0
	}
	return *c.Defaults.AfterContext
}

// LocalPath returns the path to the local config file, relative to the
// current working directory.
func LocalPath() string {
	return ".grepr.yaml"
}

// GlobalPath returns the path to the global (user) config file:
// ~/.config/grepr/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "grepr", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global,
// otherwise an empty (all-defaults) Config.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
