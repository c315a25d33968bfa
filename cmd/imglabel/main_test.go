package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/internal/task"
	"github.com/lamim/imglabel/pkg/models"
)

// writeConfig lays out a workspace with five images and returns its config path
func writeConfig(t *testing.T) (root, cfgPath string) {
	t.Helper()
	root = t.TempDir()
	imagesDir := filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	for _, name := range []string{"a.jpg", "b.jpg", "c.png", "d.jpg", "e.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, name), []byte(name), 0644))
	}

	cfgPath = filepath.Join(root, "imglabel.toml")
	content := fmt.Sprintf(`
[paths]
images_dir = %q
tasks_dir = %q
progress_dir = %q
output_dir = %q

[split]
task_size = 2
shuffle = false
show_progress = false

[logging]
file = ""
`, imagesDir, filepath.Join(root, "tasks"), filepath.Join(root, "progress"), filepath.Join(root, "output"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return root, cfgPath
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestSplitExportAndClear(t *testing.T) {
	root, cfgPath := writeConfig(t)
	tasksDir := filepath.Join(root, "tasks")

	require.NoError(t, execute("--config", cfgPath, "split"))

	names, err := task.ListTasks(tasksDir)
	require.NoError(t, err)
	require.Len(t, names, 3)

	first, err := task.LoadTask(tasksDir, names[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, first.Images)

	store := progress.NewStore(filepath.Join(root, "progress"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	record := models.NewProgressRecord(first.TaskID)
	record.LabeledFiles["a.jpg"] = models.LabelHighQuality
	require.NoError(t, store.Save(record))

	require.NoError(t, execute("--config", cfgPath, "tasks", "list"))
	require.NoError(t, execute("--config", cfgPath, "tasks", "inspect", names[0]))
	require.NoError(t, execute("--config", cfgPath, "export", names[0]))

	exports, err := os.ReadDir(filepath.Join(root, "output"))
	require.NoError(t, err)
	require.Len(t, exports, 1)
	exportDir := filepath.Join(root, "output", exports[0].Name())
	assert.FileExists(t, filepath.Join(exportDir, "highQuality", "a.jpg"))
	assert.FileExists(t, filepath.Join(exportDir, "unlabeled", "b.jpg"))

	require.NoError(t, execute("--config", cfgPath, "clear"))
	names, err = task.ListTasks(tasksDir)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.True(t, store.Exists(first.TaskID))
}

func TestSplitDryRunWritesNothing(t *testing.T) {
	root, cfgPath := writeConfig(t)

	require.NoError(t, execute("--config", cfgPath, "split", "--dry-run", "--size", "3"))
	_, err := os.Stat(filepath.Join(root, "tasks"))
	assert.True(t, os.IsNotExist(err))
}

func TestSplitRejectsInvalidSize(t *testing.T) {
	_, cfgPath := writeConfig(t)
	err := execute("--config", cfgPath, "split", "--size", "0")
	assert.ErrorIs(t, err, task.ErrInvalidTaskSize)
}

func TestExplicitConfigMustExist(t *testing.T) {
	err := execute("--config", filepath.Join(t.TempDir(), "missing.toml"), "tasks", "list")
	assert.Error(t, err)
}

func TestTaskFileArgumentIsValidated(t *testing.T) {
	_, cfgPath := writeConfig(t)
	for _, args := range [][]string{
		{"export", "../secrets.json"},
		{"tasks", "inspect", "/etc/passwd"},
		{"label", "batch_20250101_000000.json"},
	} {
		err := execute(append([]string{"--config", cfgPath}, args...)...)
		assert.Error(t, err, "args %v", args)
	}
}
