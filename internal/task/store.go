package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lamim/imglabel/internal/util"
	"github.com/lamim/imglabel/pkg/models"
)

// ErrTaskNotFound is returned when a task descriptor file does not exist
var ErrTaskNotFound = errors.New("task file does not exist")

// ListTasks returns the task descriptor filenames in tasksDir, sorted by name.
// A missing directory yields an empty list.
func ListTasks(tasksDir string) ([]string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tasks directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, "task_") || filepath.Ext(name) != ".json" {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// LoadTask reads one task descriptor from tasksDir.
// A descriptor without task_id takes its filename (minus .json) as identifier.
func LoadTask(tasksDir, name string) (*models.TaskDescriptor, error) {
	if err := ValidateTaskFilename(name); err != nil {
		return nil, err
	}

	path := filepath.Join(tasksDir, name)
	var descriptor models.TaskDescriptor
	if err := util.ReadJSONFile(path, &descriptor); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if descriptor.TaskID == "" {
		descriptor.TaskID = strings.TrimSuffix(name, ".json")
	}
	// The id names progress files and export folders
	if !util.IsPlainName(descriptor.TaskID) {
		return nil, fmt.Errorf("invalid task id %q in %s", descriptor.TaskID, name)
	}
	if descriptor.TaskName == "" {
		descriptor.TaskName = descriptor.TaskID
	}

	return &descriptor, nil
}

// Clear deletes every JSON file in tasksDir (task descriptors and batch
// indexes). Progress files live in their own directory and are untouched.
// A missing directory is not an error.
func Clear(tasksDir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(tasksDir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list task files: %w", err)
	}

	deleted := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return deleted, fmt.Errorf("failed to delete %s (%d deleted): %w", filepath.Base(path), deleted, err)
		}
		deleted++
	}
	return deleted, nil
}
