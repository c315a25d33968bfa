package task

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Task file name format: task_<anything safe>.json
var taskFilenameRegex = regexp.MustCompile(`^task_[A-Za-z0-9._-]+\.json$`)

// ValidateTaskFilename validates a task file name given on the command line
// so it cannot reach outside the tasks directory. It rejects:
//   - Path traversal attempts (..)
//   - Absolute paths
//   - Path separators
//   - Names not shaped like task_<id>.json
func ValidateTaskFilename(name string) error {
	if name == "" {
		return fmt.Errorf("task file name cannot be empty")
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid task file name: contains '..' (path traversal attempt)")
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid task file name: must be a file name without path separators")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("invalid task file name: must be relative path")
	}

	if !taskFilenameRegex.MatchString(name) {
		return fmt.Errorf("invalid task file name format: expected 'task_<id>.json', got '%s'", name)
	}

	return nil
}
