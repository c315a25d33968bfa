package config

import (
	"fmt"
	"unicode"
)

const (
	// MaxPathLength is the maximum allowed length for configured paths
	MaxPathLength = 4096

	// MaxViewerLength is the maximum allowed length for the viewer command
	MaxViewerLength = 512
)

// ValidateInputs performs additional validation on user-controllable strings
func (c *Config) ValidateInputs() error {
	paths := []struct {
		name  string
		value string
	}{
		{"paths.images_dir", c.Paths.ImagesDir},
		{"paths.tasks_dir", c.Paths.TasksDir},
		{"paths.progress_dir", c.Paths.ProgressDir},
		{"paths.output_dir", c.Paths.OutputDir},
		{"logging.file", c.Logging.File},
	}

	for _, p := range paths {
		if len(p.value) > MaxPathLength {
			return fmt.Errorf("%s exceeds maximum length of %d characters (got %d)",
				p.name, MaxPathLength, len(p.value))
		}
		if containsControlChars(p.value) {
			return fmt.Errorf("%s contains invalid control characters", p.name)
		}
	}

	if len(c.Labeling.Viewer) > MaxViewerLength {
		return fmt.Errorf("labeling.viewer exceeds maximum length of %d characters (got %d)",
			MaxViewerLength, len(c.Labeling.Viewer))
	}
	if containsControlChars(c.Labeling.Viewer) {
		return fmt.Errorf("labeling.viewer contains invalid control characters")
	}

	return nil
}

// containsControlChars checks if a string contains control characters
func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
