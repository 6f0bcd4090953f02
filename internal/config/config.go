// Package config holds project-wide constants and the packsig.yaml
// configuration.
//
// The config file is optional; every field has a default. It is looked up
// from the working directory upward, so one file at a repository root
// covers the whole tree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level packsig.yaml configuration.
type Config struct {
	// Store configures the signature store used by `packsig store`.
	Store StoreConfig `yaml:"store,omitempty"`

	// Serve configures the gRPC server started by `packsig serve`.
	Serve ServeConfig `yaml:"serve,omitempty"`

	// Check configures diagnostic output of `packsig check`.
	Check CheckConfig `yaml:"check,omitempty"`

	// Fmt configures `packsig fmt` output.
	Fmt FmtConfig `yaml:"fmt,omitempty"`
}

type StoreConfig struct {
	// Path is the SQLite database location, relative to the config file
	// when not absolute.
	Path string `yaml:"path,omitempty"`
}

type ServeConfig struct {
	// Listen is the host:port the server binds.
	Listen string `yaml:"listen,omitempty"`
}

type CheckConfig struct {
	// JSON switches diagnostics to machine readable output.
	JSON bool `yaml:"json,omitempty"`

	// Color is one of auto, always, never. auto colorizes only when
	// stderr is a terminal.
	Color string `yaml:"color,omitempty"`
}

type FmtConfig struct {
	// Indent is the number of spaces per indent level.
	Indent int `yaml:"indent,omitempty"`
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a packsig.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses packsig.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for packsig.yaml starting from dir and walking up
// to parent directories, similar to how .gitignore is found.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		candidate = filepath.Join(dir, ConfigFileAltName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Load finds and loads the project config for dir, falling back to
// defaults when no config file exists.
func Load(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	// Store paths are relative to the config file, not the working
	// directory.
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}
	return cfg, nil
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	switch c.Check.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: check.color must be one of auto, always, never; got %q",
			path, c.Check.Color)
	}

	if c.Fmt.Indent < 0 || c.Fmt.Indent > 16 {
		return fmt.Errorf("%s: fmt.indent must be between 0 and 16; got %d",
			path, c.Fmt.Indent)
	}

	if c.Serve.Listen != "" && !strings.Contains(c.Serve.Listen, ":") {
		return fmt.Errorf("%s: serve.listen must be host:port; got %q",
			path, c.Serve.Listen)
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = DefaultListenAddr
	}
	if c.Check.Color == "" {
		c.Check.Color = DefaultColorMode
	}
	if c.Fmt.Indent == 0 {
		c.Fmt.Indent = DefaultFmtIndent
	}
}
