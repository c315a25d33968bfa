package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Split    SplitConfig    `toml:"split"`
	Labeling LabelingConfig `toml:"labeling"`
	Logging  LoggingConfig  `toml:"logging"`
}

// PathsConfig holds the on-disk layout shared by the splitter and the labeler
type PathsConfig struct {
	ImagesDir   string `toml:"images_dir" validate:"required"`   // Source image directory
	TasksDir    string `toml:"tasks_dir" validate:"required"`    // Task descriptors and batch indexes
	ProgressDir string `toml:"progress_dir" validate:"required"` // One progress file per task
	OutputDir   string `toml:"output_dir" validate:"required"`   // One timestamped folder per export
}

// SplitConfig holds task generation settings
type SplitConfig struct {
	TaskSize     int  `toml:"task_size" validate:"min=1"` // Images per task
	Shuffle      bool `toml:"shuffle"`                    // Randomize task membership before chunking
	ShowProgress bool `toml:"show_progress"`              // Render progress bars for split and export
}

// LabelingConfig holds labeling session settings
type LabelingConfig struct {
	UndoLimit     int    `toml:"undo_limit" validate:"min=1"` // Undo ring capacity (default: 10)
	Viewer        string `toml:"viewer"`                      // External image viewer command (optional)
	CheckImageDir bool   `toml:"check_image_dir"`             // Drop task images missing from images_dir
}

// LoggingConfig holds log file settings
type LoggingConfig struct {
	File string `toml:"file"` // JSON log file (empty disables file logging)
}

const (
	// MaxTaskSize is the maximum allowed images per task
	MaxTaskSize = 100000
	// MaxUndoLimit is the maximum allowed undo ring capacity
	MaxUndoLimit = 1000
)

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Split.TaskSize > MaxTaskSize {
		return fmt.Errorf("split.task_size must not exceed %d (got %d)", MaxTaskSize, c.Split.TaskSize)
	}
	if c.Labeling.UndoLimit > MaxUndoLimit {
		return fmt.Errorf("labeling.undo_limit must not exceed %d (got %d)", MaxUndoLimit, c.Labeling.UndoLimit)
	}

	// Task and progress files are cleared independently, so they must not share a directory
	if filepath.Clean(c.Paths.TasksDir) == filepath.Clean(c.Paths.ProgressDir) {
		return fmt.Errorf("paths.tasks_dir and paths.progress_dir must be different directories (both %s)", c.Paths.TasksDir)
	}

	return nil
}

// formatValidationErrors turns validator errors into a single readable message
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s (got %v)", field, e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
