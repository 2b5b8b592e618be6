// Package config loads fgr runtime settings from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of a search run.
type Config struct {
	// Workers is the number of concurrent evaluation workers.
	Workers int
	// ReadTimeout bounds each content read during evaluation.
	ReadTimeout time.Duration
	// LogLevel controls diagnostic verbosity.
	LogLevel string
	// IgnoreHidden skips dot-files and dot-directories.
	IgnoreHidden bool
	// ReadIgnore honors .ignore files found in visited directories.
	ReadIgnore bool
	// ReadGitIgnore honors .gitignore files found in visited directories.
	ReadGitIgnore bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers:     runtime.NumCPU(),
		ReadTimeout: time.Second,
		LogLevel:    "info",
	}
}

// fileConfig mirrors the YAML layout. Durations are strings so the file
// can say "500ms" or "2s".
type fileConfig struct {
	Workers       *int    `yaml:"workers"`
	ReadTimeout   *string `yaml:"read_timeout"`
	LogLevel      *string `yaml:"log_level"`
	IgnoreHidden  *bool   `yaml:"ignore_hidden"`
	ReadIgnore    *bool   `yaml:"read_ignore"`
	ReadGitIgnore *bool   `yaml:"read_git_ignore"`
}

// LoadConfig reads the config file at path, merging it over the
// defaults. A missing file is not an error; an empty path skips the
// file entirely.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.ReadTimeout != nil {
		d, err := time.ParseDuration(*fc.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: invalid read_timeout %q", path, *fc.ReadTimeout)
		}
		cfg.ReadTimeout = d
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.IgnoreHidden != nil {
		cfg.IgnoreHidden = *fc.IgnoreHidden
	}
	if fc.ReadIgnore != nil {
		cfg.ReadIgnore = *fc.ReadIgnore
	}
	if fc.ReadGitIgnore != nil {
		cfg.ReadGitIgnore = *fc.ReadGitIgnore
	}
	return cfg, nil
}

// ApplyEnv overrides config fields from FGR_WORKERS, FGR_READ_TIMEOUT
// and FGR_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FGR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid FGR_WORKERS %q", v)
		}
		c.Workers = n
	}
	if v := os.Getenv("FGR_READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FGR_READ_TIMEOUT %q", v)
		}
		c.ReadTimeout = d
	}
	if v := os.Getenv("FGR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the config for values that cannot work.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", c.ReadTimeout)
	}
	return nil
}
