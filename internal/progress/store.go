package progress

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lamim/imglabel/internal/util"
	"github.com/lamim/imglabel/pkg/models"
)

// ErrInvalidTaskID is returned for task ids that would resolve outside the progress directory
var ErrInvalidTaskID = errors.New("invalid task id")

// Store reads and writes one progress file per task.
// There is no locking: concurrent writers to the same task clobber each
// other and the last whole-record write wins.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created on the first save.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the progress directory
func (s *Store) Dir() string {
	return s.dir
}

// Filename returns the progress file name for a task
func Filename(taskID string) string {
	return "task_progress_" + taskID + ".json"
}

// Path returns the full path of the progress file for a task
func (s *Store) Path(taskID string) string {
	return filepath.Join(s.dir, Filename(taskID))
}

// Exists reports whether a progress file has been written for the task
func (s *Store) Exists(taskID string) bool {
	_, err := os.Stat(s.Path(taskID))
	return err == nil
}

// Load reads the progress record for a task.
// A missing file yields an empty record; a corrupt file or unknown label is an error.
func (s *Store) Load(taskID string) (*models.ProgressRecord, error) {
	if !util.IsPlainName(taskID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskID, taskID)
	}
	path := s.Path(taskID)

	var record models.ProgressRecord
	if err := util.ReadJSONFile(path, &record); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("No progress file, starting empty", "task_id", taskID, "path", path)
			return models.NewProgressRecord(taskID), nil
		}
		return nil, fmt.Errorf("failed to load progress for %s: %w", taskID, err)
	}

	if record.LabeledFiles == nil {
		record.LabeledFiles = make(map[string]models.Label)
	}
	if record.TaskID == "" {
		record.TaskID = taskID
	}

	stats := Compute(&record)
	s.logger.Info("Progress loaded",
		"task_id", taskID,
		"labeled", stats.Labeled,
		"highQuality", stats.HighQuality,
		"lowQuality", stats.LowQuality,
		"skip", stats.Skip)

	return &record, nil
}

// Save stamps last_updated and writes the whole record synchronously.
// The write goes through a temp file and rename so a crash never leaves a
// truncated progress file behind.
func (s *Store) Save(record *models.ProgressRecord) error {
	if record.TaskID == "" {
		return fmt.Errorf("progress record has no task id")
	}
	if !util.IsPlainName(record.TaskID) {
		return fmt.Errorf("%w: %q", ErrInvalidTaskID, record.TaskID)
	}

	record.LastUpdated = models.Now()
	path := s.Path(record.TaskID)
	if err := util.WriteJSONFile(path, record); err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", record.TaskID, err)
	}

	s.logger.Debug("Progress saved", "path", path, "labeled", len(record.LabeledFiles))
	return nil
}
