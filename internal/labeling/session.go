package labeling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/pkg/models"
)

var (
	// ErrNoTaskLoaded is returned by operations that need an open task
	ErrNoTaskLoaded = errors.New("no task loaded")
	// ErrNoCurrentImage is returned by Decide when nothing is left to label
	ErrNoCurrentImage = errors.New("no image to label")
	// ErrInvalidLabel is returned by Decide for a label outside the known set
	ErrInvalidLabel = errors.New("invalid label")
	// ErrNothingToUndo is returned by Undo when the undo log is empty
	ErrNothingToUndo = errors.New("nothing to undo")
)

// DefaultUndoLimit is the number of recent decisions that can be undone
const DefaultUndoLimit = 10

// State is the lifecycle position of a session
type State int

const (
	StateNoTask State = iota
	StateLabeling
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNoTask:
		return "no_task"
	case StateLabeling:
		return "labeling"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Store persists progress records
type Store interface {
	Load(taskID string) (*models.ProgressRecord, error)
	Save(record *models.ProgressRecord) error
}

// Session owns the progress record of one task and the derived remaining
// queue. The current image is always the first entry of the queue; deciding
// shrinks the queue instead of moving a cursor.
type Session struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Collector
	imageDir  string
	undoLimit int
	observers []Observer
	warnOnce  *rate.Sometimes

	task      *models.TaskDescriptor
	record    *models.ProgressRecord
	remaining []string
	missing   []string
	undo      *undoRing
	state     State
}

// Option customizes a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithMetrics attaches a metrics collector
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.metrics = c }
}

// WithUndoLimit sets the undo ring capacity
func WithUndoLimit(n int) Option {
	return func(s *Session) { s.undoLimit = n }
}

// WithImageDir makes the session skip task images that are missing from dir
func WithImageDir(dir string) Option {
	return func(s *Session) { s.imageDir = dir }
}

// WithObserver registers an observer for state changes
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// NewSession creates a session with no task loaded
func NewSession(store Store, opts ...Option) *Session {
	s := &Session{
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		undoLimit: DefaultUndoLimit,
		warnOnce:  &rate.Sometimes{First: 5, Interval: 10 * time.Second},
		state:     StateNoTask,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.undo = newUndoRing(s.undoLimit)
	return s
}

// Subscribe registers an observer after construction
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Open loads the progress record for task and rebuilds the remaining queue.
// Opening the same task again, in this or a later run, resumes where the
// persisted record left off. The undo log does not survive a reopen.
func (s *Session) Open(task *models.TaskDescriptor) error {
	if task == nil {
		return ErrNoTaskLoaded
	}

	record, err := s.store.Load(task.TaskID)
	if err != nil {
		return fmt.Errorf("failed to open task %s: %w", task.TaskID, err)
	}

	s.task = task
	s.record = record
	s.undo.reset()
	s.missing = s.findMissing()
	s.recompute()

	stats := progress.Compute(record)
	s.logger.Info("Task opened",
		"task_id", task.TaskID,
		"task_name", task.TaskName,
		"total", len(task.Images),
		"labeled", stats.Labeled,
		"remaining", len(s.remaining),
		"missing", len(s.missing))

	s.notify(EventOpened)
	if s.state == StateCompleted {
		s.notify(EventCompleted)
	}
	return nil
}

// Decide records label for the current image and persists the record before
// returning. If the save fails the in-memory record is left unchanged.
func (s *Session) Decide(label models.Label) error {
	if s.task == nil {
		return ErrNoTaskLoaded
	}
	if !label.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	current, ok := s.Current()
	if !ok {
		return ErrNoCurrentImage
	}

	s.record.LabeledFiles[current] = label
	if err := s.store.Save(s.record); err != nil {
		delete(s.record.LabeledFiles, current)
		return fmt.Errorf("failed to record %s as %s: %w", current, label, err)
	}

	s.undo.push(UndoEntry{Filename: current, Label: label})
	s.metrics.RecordDecision(label)
	s.recompute()

	s.logger.Debug("Image labeled", "task_id", s.task.TaskID, "filename", current, "label", label, "remaining", len(s.remaining))

	s.notify(EventDecided)
	if s.state == StateCompleted {
		s.logger.Info("Task completed", "task_id", s.task.TaskID)
		s.notify(EventCompleted)
	}
	return nil
}

// Undo reverts the most recent decision still held in the undo log.
// The key is removed whatever label is currently stored for it, and the
// filename returns to its sorted position in the remaining queue.
func (s *Session) Undo() (UndoEntry, error) {
	if s.task == nil {
		return UndoEntry{}, ErrNoTaskLoaded
	}

	entry, ok := s.undo.pop()
	if !ok {
		return UndoEntry{}, ErrNothingToUndo
	}

	previous, existed := s.record.LabeledFiles[entry.Filename]
	delete(s.record.LabeledFiles, entry.Filename)
	if err := s.store.Save(s.record); err != nil {
		if existed {
			s.record.LabeledFiles[entry.Filename] = previous
		}
		s.undo.push(entry)
		return UndoEntry{}, fmt.Errorf("failed to undo %s: %w", entry.Filename, err)
	}

	s.metrics.RecordUndo()
	s.recompute()

	s.logger.Debug("Decision undone", "task_id", s.task.TaskID, "filename", entry.Filename, "label", entry.Label)

	s.notify(EventUndone)
	return entry, nil
}

// Current returns the image awaiting a decision
func (s *Session) Current() (string, bool) {
	if len(s.remaining) == 0 {
		return "", false
	}
	return s.remaining[0], true
}

// CurrentPath returns the on-disk path of the current image, when an image dir is set
func (s *Session) CurrentPath() (string, bool) {
	current, ok := s.Current()
	if !ok || s.imageDir == "" {
		return "", false
	}
	return filepath.Join(s.imageDir, current), true
}

// Remaining returns a copy of the remaining queue in sorted order
func (s *Session) Remaining() []string {
	return append([]string(nil), s.remaining...)
}

// Missing returns the task images skipped because they are absent from the image dir
func (s *Session) Missing() []string {
	return append([]string(nil), s.missing...)
}

// Record returns a copy of the progress record
func (s *Session) Record() *models.ProgressRecord {
	if s.record == nil {
		return nil
	}
	return s.record.Clone()
}

// Task returns the open task descriptor
func (s *Session) Task() *models.TaskDescriptor {
	return s.task
}

// State returns the session lifecycle state
func (s *Session) State() State {
	return s.state
}

// Stats returns label counts of the progress record
func (s *Session) Stats() progress.Stats {
	return progress.Compute(s.record)
}

// UndoDepth returns how many decisions can currently be undone
func (s *Session) UndoDepth() int {
	return s.undo.len()
}

// recompute rebuilds the remaining queue from the task minus the record
func (s *Session) recompute() {
	skip := make(map[string]bool, len(s.missing))
	for _, name := range s.missing {
		skip[name] = true
	}

	remaining := make([]string, 0, len(s.task.Images))
	for _, name := range progress.Remaining(s.task, s.record) {
		if !skip[name] {
			remaining = append(remaining, name)
		}
	}
	sort.Strings(remaining)
	s.remaining = remaining

	if len(s.remaining) == 0 {
		s.state = StateCompleted
	} else {
		s.state = StateLabeling
	}
}

// findMissing lists task images that are not present in the image dir
func (s *Session) findMissing() []string {
	if s.imageDir == "" {
		return nil
	}

	var missing []string
	for _, name := range s.task.Images {
		if _, err := os.Stat(filepath.Join(s.imageDir, name)); err != nil {
			missing = append(missing, name)
			s.warnOnce.Do(func() {
				s.logger.Warn("Task image not found in image directory", "filename", name, "image_dir", s.imageDir)
			})
		}
	}
	return missing
}

func (s *Session) notify(e Event) {
	for _, o := range s.observers {
		o.SessionChanged(e)
	}
}
