// Package config holds runtime settings for the forcecloud CLI. The library
// packages take explicit arguments; only the CLI reads configuration.
//
// Sources are layered: defaults, then the YAML file (if present), then
// environment variables. Command-line flags are handled by the CLI itself
// and take precedence over everything here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	EnvRegion       = "FORCECLOUD_REGION"
	EnvRefreshToken = "FORCECLOUD_REFRESH_TOKEN"
	EnvWindowDays   = "FORCECLOUD_WINDOW_DAYS"
)

// Config is the CLI's runtime configuration.
type Config struct {
	// Region names the regional deployment: Americas, Europe,
	// Asia/Pacific, or Dev.
	Region string `yaml:"region"`
	// RefreshToken authenticates Login. Usually supplied via environment
	// rather than the file.
	RefreshToken string `yaml:"refresh_token"`
	// WindowDays sizes the backfill buckets of the build command.
	WindowDays int `yaml:"window_days"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Region = "Americas"
	c.WindowDays = 14
}

// DefaultPath is the YAML file consulted when no --config flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".forcecloud.yaml")
}

// Load constructs a Config: defaults, then the YAML file at path (missing
// default-path files are fine; an explicit path must exist), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.loadEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvRefreshToken); v != "" {
		c.RefreshToken = v
	}
	if v := os.Getenv(EnvWindowDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WindowDays = n
		}
	}
}
