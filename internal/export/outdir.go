package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StampLayout formats the export timestamp in directory and file names
const StampLayout = "20060102_150405"

// createOutputDir creates <outputDir>/task_<taskID>_<stamp>. When that
// directory already exists (two exports within one second) a short random
// suffix is appended, so an export never writes into an earlier one.
func createOutputDir(outputDir, taskID, stamp string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("task_%s_%s", taskID, stamp)
	dir := filepath.Join(outputDir, name)
	for attempt := 0; attempt < 5; attempt++ {
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
		dir = filepath.Join(outputDir, name+"_"+uuid.NewString()[:8])
	}
	return "", fmt.Errorf("failed to create a unique export directory under %s", outputDir)
}
