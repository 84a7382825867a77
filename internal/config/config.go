// Package config handles configuration loading for the validator binaries.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the optional configuration file structure.
// Every field has a working default; an empty file is valid.
type Config struct {
	// StoreDir overrides the schema store location (default ~/.jsonfg-validator).
	StoreDir string `yaml:"store_dir,omitempty"`

	// BundleURL overrides the schema bundle archive location.
	BundleURL string `yaml:"bundle_url,omitempty"`

	// Timeout in seconds for remote fetches (documents and bundle archive).
	Timeout int `yaml:"timeout,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Timeout: 30}
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30
	}

	return cfg, nil
}
