package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeFile is the optional per-checkout runtime configuration.
const RuntimeFile = ".image-manager.yml"

// RuntimeConfig mirrors .image-manager.yml. Pointer fields distinguish
// "unset" from explicit false so flag/env precedence can be applied on top.
type RuntimeConfig struct {
	ImagesDir  string `yaml:"images"`
	OutputDir  string `yaml:"output"`
	SnapshotID string `yaml:"snapshot_id"`
	Cleanup    *bool  `yaml:"cleanup"`
	Debug      *bool  `yaml:"debug"`
}

// LoadRuntime reads a runtime config file. An empty path yields the zero
// config.
func LoadRuntime(path string) (RuntimeConfig, error) {
	if path == "" {
		return RuntimeConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg RuntimeConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}

	return cfg, nil
}

// RuntimeFromString parses a runtime config from an in-memory YAML document.
func RuntimeFromString(s string) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}
