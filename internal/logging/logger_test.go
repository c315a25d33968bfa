package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "imglabel.log")

	logger, closer, err := Setup(Options{Level: slog.LevelInfo, Console: &console, File: path})
	require.NoError(t, err)

	logger.With("task_id", "t1").Info("Task opened", "remaining", 3)
	logger.Debug("hidden")
	require.NoError(t, closer())

	assert.Contains(t, console.String(), "Task opened")
	assert.Contains(t, console.String(), "task_id=t1")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Task opened", entry["msg"])
	assert.Equal(t, "t1", entry["task_id"])
	assert.Equal(t, float64(3), entry["remaining"])
}

func TestSetupFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imglabel.log")

	logger, closer, err := Setup(Options{Level: slog.LevelDebug, File: path})
	require.NoError(t, err)
	logger.Debug("debug line")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
}

func TestSetupNoDestinations(t *testing.T) {
	logger, closer, err := Setup(Options{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("dropped")
	assert.NoError(t, closer())
}
