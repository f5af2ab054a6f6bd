// Package config loads the nestedtodo config.toml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default character limits for the form inputs.
const (
	DefaultNameLimit           = 200
	DefaultDescriptionLimit    = 1000
	DefaultSubDescriptionLimit = 200
)

// Config represents the config.toml file.
type Config struct {
	// Theme names the color theme, e.g. "tokyo-night".
	Theme  string `toml:"theme"`
	Log    Log    `toml:"log"`
	Limits Limits `toml:"limits"`
}

// Log contains logging configuration.
type Log struct {
	// File is where logs are written. Empty disables logging.
	File string `toml:"file"`
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Limits caps the length of text typed into the inputs.
type Limits struct {
	Name           int `toml:"name"`
	Description    int `toml:"description"`
	SubDescription int `toml:"sub-description"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Theme: "tokyo-night",
		Log: Log{
			Level: "info",
		},
		Limits: Limits{
			Name:           DefaultNameLimit,
			Description:    DefaultDescriptionLimit,
			SubDescription: DefaultSubDescriptionLimit,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "nestedtodo", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults. Keys that are not set
// keep their default values.
func Parse(data string) (*Config, error) {
	var file Config
	meta, err := toml.Decode(data, &file)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	cfg := Default()
	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(file.Theme)
	}
	if meta.IsDefined("log", "file") {
		cfg.Log.File = strings.TrimSpace(file.Log.File)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(file.Log.Level))
	}
	if meta.IsDefined("limits", "name") {
		cfg.Limits.Name = file.Limits.Name
	}
	if meta.IsDefined("limits", "description") {
		cfg.Limits.Description = file.Limits.Description
	}
	if meta.IsDefined("limits", "sub-description") {
		cfg.Limits.SubDescription = file.Limits.SubDescription
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that limits are positive.
func (c *Config) Validate() error {
	for key, v := range map[string]int{
		"limits.name":            c.Limits.Name,
		"limits.description":     c.Limits.Description,
		"limits.sub-description": c.Limits.SubDescription,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, v)
		}
	}
	return nil
}
