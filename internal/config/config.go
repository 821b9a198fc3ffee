// Package config provides unified configuration loading for poreparse.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"poreparse/poreblazer"
)

// Config contains all poreparse configuration settings.
type Config struct {
	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Index contains settings for the run index database.
	Index IndexConfig `json:"index" yaml:"index"`

	// Files overrides the expected output file name per kind, for runs
	// produced with non-standard naming. Keys are the kind names
	// ("summary", "psd", "psd_cum", ...).
	Files map[string]string `json:"files,omitempty" yaml:"files,omitempty"`
}

// LoggingConfig configures poreparse's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// IndexConfig configures the SQLite run index.
type IndexConfig struct {
	// Path is the index database file. Defaults to ~/.poreparse/runs.db.
	Path string `json:"path" yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.poreparse/config.yaml -> environment.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".poreparse", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileCfg, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileCfg
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	known := poreblazer.DefaultFileNames()
	for kind := range c.Files {
		if _, ok := known[poreblazer.FileKind(kind)]; !ok {
			return fmt.Errorf("unknown file kind in files override: %s", kind)
		}
	}
	return nil
}

// IndexPath returns the configured run index path, falling back to
// ~/.poreparse/runs.db.
func (c *Config) IndexPath() (string, error) {
	if c.Index.Path != "" {
		return c.Index.Path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving index path: %w", err)
	}
	return filepath.Join(homeDir, ".poreparse", "runs.db"), nil
}

// FileNames returns the PoreBlazer file names with any configured overrides
// applied.
func (c *Config) FileNames() map[poreblazer.FileKind]string {
	names := poreblazer.DefaultFileNames()
	for kind, name := range c.Files {
		names[poreblazer.FileKind(kind)] = name
	}
	return names
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POREPARSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POREPARSE_DB"); v != "" {
		cfg.Index.Path = v
	}
}
