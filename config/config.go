// Package config decodes the transform configuration: the JSON blob a host
// passes to the plugin, or a rawimport.{json,yaml,yml,toml} file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// ErrMissingConfiguration is returned when no rootDir is configured.
var ErrMissingConfiguration = errors.New("missing configuration: rootDir is required")

// FileNames are the config file names Find looks for, in order.
var FileNames = []string{"rawimport.json", "rawimport.yaml", "rawimport.yml", "rawimport.toml"}

// Config is the transform configuration.
type Config struct {
	// RootDir is the project root. Package specifiers resolve under
	// <RootDir>/node_modules. Nil when not configured.
	RootDir *string `json:"rootDir" yaml:"rootDir" toml:"rootDir"`
	// MaxFileSize caps inlined files, as a human readable size ("512KB").
	// Empty means no limit.
	MaxFileSize string `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty" toml:"maxFileSize,omitempty"`
}

// Decode parses the host's JSON configuration blob. A blob without rootDir
// is an error.
func Decode(blob []byte) (*Config, error) {
	cfg, err := Parse(blob)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is Decode without validation, for callers that apply overrides
// before validating.
func Parse(blob []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(blob, cfg); err != nil {
		return nil, fmt.Errorf("decoding plugin config: %w", err)
	}
	return cfg, nil
}

// Load reads a config file, choosing the format by extension. A relative
// rootDir is taken relative to the file's directory.
func Load(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadFile is Load without validation.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.RootDir != nil && *cfg.RootDir != "" && !filepath.IsAbs(*cfg.RootDir) {
		root := filepath.Join(filepath.Dir(path), *cfg.RootDir)
		cfg.RootDir = &root
	}
	return cfg, nil
}

// Find returns the first config file present in dir, or "" if none.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RootDir == nil || *c.RootDir == "" {
		return ErrMissingConfiguration
	}
	if _, err := c.MaxBytes(); err != nil {
		return err
	}
	return nil
}

// Root returns the absolute root directory.
func (c *Config) Root() (string, error) {
	if c.RootDir == nil || *c.RootDir == "" {
		return "", ErrMissingConfiguration
	}
	root, err := filepath.Abs(*c.RootDir)
	if err != nil {
		return "", fmt.Errorf("resolving rootDir %q: %w", *c.RootDir, err)
	}
	return root, nil
}

// MaxBytes returns the parsed MaxFileSize, 0 when unlimited.
func (c *Config) MaxBytes() (int64, error) {
	if c.MaxFileSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("invalid maxFileSize %q: %w", c.MaxFileSize, err)
	}
	return int64(n), nil
}

// WithRootDir returns a copy of c with RootDir set to dir.
func (c *Config) WithRootDir(dir string) *Config {
	out := *c
	out.RootDir = &dir
	return &out
}
