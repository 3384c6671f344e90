// Package config provides configuration loading and management for slicenii.
// It handles loading configuration from YAML files and provides default
// values; command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Slicer parameters
	Slicer struct {
		// PaddingFactor is how many copies of each slice are stacked along
		// the axis when padding is requested
		PaddingFactor int `yaml:"paddingFactor"`
	} `yaml:"slicer"`

	// Combiner parameters
	Combiner struct {
		// SortKey orders discovered slice files: "name" for lexicographic,
		// "numeric" for the digits embedded in each filename
		SortKey string `yaml:"sortKey"`

		// Overwrite allows replacing an existing output file
		Overwrite bool `yaml:"overwrite"`
	} `yaml:"combiner"`

	// Output parameters
	Output struct {
		// Verbose raises logging to debug level
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Four copies per padded slice, matching what the slicer always produced
	// before the factor became configurable
	cfg.Slicer.PaddingFactor = 4

	cfg.Combiner.SortKey = "name"
	cfg.Combiner.Overwrite = false

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Slicer.PaddingFactor < 1 {
		return nil, fmt.Errorf("paddingFactor must be at least 1, got %d", cfg.Slicer.PaddingFactor)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
