package progress

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/imglabel/pkg/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress"), quietLogger())

	record, err := store.Load("task_x_001")
	require.NoError(t, err)
	assert.Equal(t, "task_x_001", record.TaskID)
	assert.Empty(t, record.LabeledFiles)
	assert.NotNil(t, record.LabeledFiles)
	assert.False(t, store.Exists("task_x_001"))
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "progress")
	store := NewStore(dir, quietLogger())

	record := models.NewProgressRecord("task_x_001")
	record.LabeledFiles["a.jpg"] = models.LabelHighQuality
	record.LabeledFiles["b.jpg"] = models.LabelSkip
	require.NoError(t, store.Save(record))
	assert.False(t, record.LastUpdated.IsZero(), "Save should stamp last_updated")

	assert.FileExists(t, filepath.Join(dir, "task_progress_task_x_001.json"))
	assert.True(t, store.Exists("task_x_001"))

	loaded, err := store.Load("task_x_001")
	require.NoError(t, err)
	assert.Equal(t, record.LabeledFiles, loaded.LabeledFiles)
	assert.Equal(t, record.LastUpdated.Unix(), loaded.LastUpdated.Unix())
}

func TestLoadReadsLegacyFormat(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "task_id": "task_20250101_120000_001",
  "labeled_files": {
    "a.jpg": "highQuality",
    "b.jpg": "lowQuality"
  },
  "last_updated": "2025-01-01T12:30:45.123456"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task_progress_task_20250101_120000_001.json"), []byte(content), 0644))

	record, err := NewStore(dir, quietLogger()).Load("task_20250101_120000_001")
	require.NoError(t, err)
	assert.Equal(t, models.LabelLowQuality, record.LabeledFiles["b.jpg"])
	assert.Equal(t, 45, record.LastUpdated.Second())
}

func TestLoadRejectsUnknownLabel(t *testing.T) {
	dir := t.TempDir()
	content := `{"task_id": "t", "labeled_files": {"a.jpg": "maybe"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename("t")), []byte(content), 0644))

	_, err := NewStore(dir, quietLogger()).Load("t")
	assert.Error(t, err)
}

func TestSaveOverwritesWholeRecord(t *testing.T) {
	store := NewStore(t.TempDir(), quietLogger())

	first := models.NewProgressRecord("t")
	first.LabeledFiles["a.jpg"] = models.LabelHighQuality
	require.NoError(t, store.Save(first))

	// A second writer that never saw a.jpg wins
	second := models.NewProgressRecord("t")
	second.LabeledFiles["b.jpg"] = models.LabelLowQuality
	require.NoError(t, store.Save(second))

	loaded, err := store.Load("t")
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Label{"b.jpg": models.LabelLowQuality}, loaded.LabeledFiles)
}

func TestSaveRequiresTaskID(t *testing.T) {
	store := NewStore(t.TempDir(), quietLogger())
	assert.Error(t, store.Save(models.NewProgressRecord("")))
}

func TestRejectsEscapingTaskID(t *testing.T) {
	root := t.TempDir()
	store := NewStore(filepath.Join(root, "progress"), quietLogger())

	for _, id := range []string{"../x", "a/b", "..", `..\x`} {
		_, err := store.Load(id)
		assert.ErrorIs(t, err, ErrInvalidTaskID, "Load(%q)", id)

		err = store.Save(models.NewProgressRecord(id))
		assert.ErrorIs(t, err, ErrInvalidTaskID, "Save(%q)", id)
	}

	_, err := os.Stat(filepath.Join(root, "progress"))
	assert.True(t, os.IsNotExist(err))
}
