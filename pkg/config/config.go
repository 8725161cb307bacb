// Package config provides configuration loading and management for the GraFT
// analysis pipeline. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stradaa/GraFT-analysis/pkg/mask"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Dataset parameters
	Dataset struct {
		// InputDir is the directory containing the 2D frames of the
		// recording, sorted alphanumerically into time order
		InputDir string `yaml:"inputDir"`
	} `yaml:"dataset"`

	// Masking parameters
	Masking struct {
		// Mask restricts downstream computation to a region of interest.
		// It is either the name of an automatic thresholding method
		// (sigma, adaptive, otsu, triangle), an explicit 2D grid of
		// booleans, or empty for no masking.
		Mask mask.SpecValue `yaml:"mask"`
	} `yaml:"masking"`

	// Output parameters
	Output struct {
		// MaskFile is where the resolved mask is saved as a PNG
		MaskFile string `yaml:"maskFile"`

		// OverlayFile is where the mask preview overlay is saved
		OverlayFile string `yaml:"overlayFile"`

		// MaskedDataFile is where the masked pixel-by-time matrix is
		// saved as CSV
		MaskedDataFile string `yaml:"maskedDataFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// No mask by default; the pipeline then runs on all pixels
	cfg.Masking.Mask = mask.SpecValue{Spec: mask.Unset{}}

	cfg.Output.MaskFile = "mask.png"
	cfg.Output.OverlayFile = "mask_overlay.png"
	cfg.Output.MaskedDataFile = "masked_data.csv"
	cfg.Output.Verbose = true

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
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
