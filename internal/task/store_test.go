package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearRemovesOnlyJSON(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "task_1_001.json", "task_1_002.json", "batch_1.json", "notes.txt")

	n, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())
}

func TestClearMissingOrEmptyDir(t *testing.T) {
	n, err := Clear(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Clear(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListTasksSkipsBatchIndex(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "task_b.json", "task_a.json", "batch_x.json", "task_c.txt")

	names, err := ListTasks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"task_a.json", "task_b.json"}, names)

	names, err = ListTasks(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoadTaskDefaultsIDFromFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task_manual.json"),
		[]byte(`{"images": ["a.jpg", "b.jpg"], "total_images": 2}`), 0644))

	d, err := LoadTask(dir, "task_manual.json")
	require.NoError(t, err)
	assert.Equal(t, "task_manual", d.TaskID)
	assert.Equal(t, "task_manual", d.TaskName)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, d.Images)
}

func TestLoadTaskMissing(t *testing.T) {
	_, err := LoadTask(t.TempDir(), "task_nope.json")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestLoadTaskCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task_bad.json"), []byte("{"), 0644))

	_, err := LoadTask(dir, "task_bad.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
}

func TestLoadTaskRejectsEscapingTaskID(t *testing.T) {
	dir := t.TempDir()
	content := `{"task_id": "../../evil", "images": ["a.jpg"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task_evil.json"), []byte(content), 0644))

	_, err := LoadTask(dir, "task_evil.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task id")
}

func TestValidateTaskFilename(t *testing.T) {
	valid := []string{"task_20250102_030405_001.json", "task_manual.json", "task_a-b.c.json"}
	for _, name := range valid {
		assert.NoError(t, ValidateTaskFilename(name), name)
	}

	invalid := []struct {
		input string
		want  string
	}{
		{"", "cannot be empty"},
		{"../task_x.json", "path traversal"},
		{"task_..json", "path traversal"},
		{"/etc/task_x.json", "without path separators"},
		{"tasks/task_x.json", "without path separators"},
		{"tasks\\task_x.json", "without path separators"},
		{"batch_20250102.json", "invalid task file name format"},
		{"task_x.txt", "invalid task file name format"},
		{"task_ x.json", "invalid task file name format"},
	}
	for _, tt := range invalid {
		err := ValidateTaskFilename(tt.input)
		if assert.Error(t, err, tt.input) {
			assert.Contains(t, err.Error(), tt.want, tt.input)
		}
	}
}
