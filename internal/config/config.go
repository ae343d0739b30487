// Package config persists run parameters as YAML so a generation can be
// replayed exactly from a file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tlacroix/dicomsynth/internal/dicom"
)

// RunConfig mirrors GeneratorOptions for YAML serialization.
type RunConfig struct {
	NumImages      int    `yaml:"num_images"`
	TotalSize      string `yaml:"total_size"`
	OutputDir      string `yaml:"output_dir"`
	Seed           int64  `yaml:"seed"`
	Workers        int    `yaml:"workers"`
	Label          bool   `yaml:"label"`
	RealisticNames bool   `yaml:"realistic_names"`
}

// Load reads and validates a run configuration from path.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.NumImages <= 0 {
		return nil, fmt.Errorf("config %s: num_images must be > 0, got %d", path, cfg.NumImages)
	}
	if cfg.TotalSize == "" {
		return nil, fmt.Errorf("config %s: total_size is required", path)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("config %s: output_dir is required", path)
	}

	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *RunConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GeneratorOptions converts the configuration into generator options.
func (c *RunConfig) GeneratorOptions() dicom.GeneratorOptions {
	return dicom.GeneratorOptions{
		NumImages:      c.NumImages,
		TotalSize:      c.TotalSize,
		OutputDir:      c.OutputDir,
		Seed:           c.Seed,
		Workers:        c.Workers,
		Label:          c.Label,
		RealisticNames: c.RealisticNames,
	}
}
