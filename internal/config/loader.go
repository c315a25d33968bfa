package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file.
// When optional is true a missing file yields the defaults instead of an error.
func Load(configPath string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so booleans left out of the file keep their default
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Additional input validation
	if err := cfg.ValidateInputs(); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Paths.ImagesDir == "" {
		cfg.Paths.ImagesDir = DefaultImagesDir
	}
	if cfg.Paths.TasksDir == "" {
		cfg.Paths.TasksDir = DefaultTasksDir
	}
	if cfg.Paths.ProgressDir == "" {
		cfg.Paths.ProgressDir = DefaultProgressDir
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = DefaultOutputDir
	}

	// 0 means unset; negative values are left for Validate to reject
	if cfg.Split.TaskSize == 0 {
		cfg.Split.TaskSize = DefaultTaskSize
	}
	if cfg.Labeling.UndoLimit == 0 {
		cfg.Labeling.UndoLimit = DefaultUndoLimit
	}
}
