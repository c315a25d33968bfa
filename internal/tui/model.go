package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lamim/imglabel/internal/export"
	"github.com/lamim/imglabel/internal/labeling"
	"github.com/lamim/imglabel/internal/task"
	"github.com/lamim/imglabel/pkg/models"
)

// Exporter writes an export snapshot of a task
type Exporter interface {
	Export(ctx context.Context, descriptor *models.TaskDescriptor, record *models.ProgressRecord, sourceDir string) (*export.Result, error)
}

// Options configures the labeler model
type Options struct {
	Session  *labeling.Session
	Exporter Exporter
	Logger   *slog.Logger

	TasksDir  string
	Tasks     []string // Task descriptor filenames available for switching
	StartTask int      // Index into Tasks opened first

	ImageDir string
	Viewer   string // Command used to open the current image, empty disables it
}

// action is one session operation bound to a key
type action struct {
	binding key.Binding
	run     func(m *Model) tea.Cmd
}

// Model is the bubbletea model of the terminal labeler. It only talks to
// the session through its operations and never edits the record itself.
type Model struct {
	ctx      context.Context
	session  *labeling.Session
	exporter Exporter
	logger   *slog.Logger
	events   *eventQueue

	tasksDir string
	tasks    []string
	taskIdx  int
	imageDir string
	viewer   string

	keys     KeyMap
	help     help.Model
	actions  []action
	showHelp bool

	status    string
	level     statusLevel
	exporting bool

	width  int
	height int
}

// New creates the labeler and opens the starting task
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Session == nil {
		return Model{}, errors.New("labeler needs a session")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := Model{
		ctx:      ctx,
		session:  opts.Session,
		exporter: opts.Exporter,
		logger:   opts.Logger,
		events:   &eventQueue{},
		tasksDir: opts.TasksDir,
		tasks:    opts.Tasks,
		imageDir: opts.ImageDir,
		viewer:   opts.Viewer,
		keys:     Keys,
		help:     help.New(),
	}
	m.actions = m.keyActions()
	m.session.Subscribe(m.events)

	if len(m.tasks) > 0 {
		start := opts.StartTask
		if start < 0 || start >= len(m.tasks) {
			start = 0
		}
		if err := m.openTask(start); err != nil {
			return Model{}, err
		}
	}
	return m, nil
}

// keyActions maps every binding to exactly one operation
func (m Model) keyActions() []action {
	return []action{
		{m.keys.HighQuality, func(m *Model) tea.Cmd { return m.decide(models.LabelHighQuality) }},
		{m.keys.LowQuality, func(m *Model) tea.Cmd { return m.decide(models.LabelLowQuality) }},
		{m.keys.Skip, func(m *Model) tea.Cmd { return m.decide(models.LabelSkip) }},
		{m.keys.Undo, (*Model).undo},
		{m.keys.Export, (*Model).export},
		{m.keys.Open, (*Model).openViewer},
		{m.keys.NextTask, func(m *Model) tea.Cmd { return m.switchTask(1) }},
		{m.keys.PrevTask, func(m *Model) tea.Cmd { return m.switchTask(-1) }},
		{m.keys.Help, func(m *Model) tea.Cmd { m.showHelp = !m.showHelp; return nil }},
		{m.keys.Quit, func(m *Model) tea.Cmd { return tea.Quit }},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		for _, a := range m.actions {
			if key.Matches(msg, a.binding) {
				cmd := a.run(&m)
				m.consumeEvents()
				return m, cmd
			}
		}
		return m, nil

	case ExportFinishedMsg:
		m.exporting = false
		if msg.Err != nil {
			m.logger.Error("Export failed", "error", msg.Err)
			m.setStatus(levelError, "Export failed: "+msg.Err.Error())
			return m, nil
		}
		r := msg.Result
		text := fmt.Sprintf("Exported %d records to %s", r.Records, r.Dir)
		if r.NotFound > 0 || r.CopyErrors > 0 {
			text += fmt.Sprintf(" (%d not found, %d copy errors)", r.NotFound, r.CopyErrors)
			m.setStatus(levelWarning, text)
		} else {
			m.setStatus(levelSuccess, text)
		}
		return m, nil

	case ViewerFinishedMsg:
		if msg.Err != nil {
			m.logger.Warn("Image viewer failed", "viewer", m.viewer, "error", msg.Err)
			m.setStatus(levelError, "Viewer failed: "+msg.Err.Error())
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.level = level
	m.status = text
}

// consumeEvents turns session events into status feedback
func (m *Model) consumeEvents() {
	for _, e := range m.events.drain() {
		if e == labeling.EventCompleted {
			m.setStatus(levelSuccess, "All images in this task are labeled. Press e to export.")
		}
	}
}

func (m *Model) decide(label models.Label) tea.Cmd {
	current, ok := m.session.Current()
	if !ok {
		m.setStatus(levelWarning, "No image to label")
		return nil
	}
	if err := m.session.Decide(label); err != nil {
		m.logger.Error("Failed to record decision", "filename", current, "label", label, "error", err)
		m.setStatus(levelError, "Save failed: "+err.Error())
		return nil
	}
	m.setStatus(levelInfo, fmt.Sprintf("%s -> %s", current, label))
	return nil
}

func (m *Model) undo() tea.Cmd {
	entry, err := m.session.Undo()
	switch {
	case errors.Is(err, labeling.ErrNothingToUndo):
		m.setStatus(levelInfo, "Nothing to undo")
	case errors.Is(err, labeling.ErrNoTaskLoaded):
		m.setStatus(levelWarning, "No task loaded")
	case err != nil:
		m.logger.Error("Failed to undo", "error", err)
		m.setStatus(levelError, "Undo failed: "+err.Error())
	default:
		m.setStatus(levelInfo, fmt.Sprintf("Undid %s (%s)", entry.Filename, entry.Label))
	}
	return nil
}

// export runs in the background on a snapshot of the record
func (m *Model) export() tea.Cmd {
	descriptor := m.session.Task()
	if descriptor == nil {
		m.setStatus(levelWarning, "No task loaded")
		return nil
	}
	if m.exporter == nil {
		m.setStatus(levelWarning, "Export is not configured")
		return nil
	}
	if m.exporting {
		m.setStatus(levelInfo, "Export already running")
		return nil
	}

	m.exporting = true
	m.setStatus(levelInfo, "Exporting...")
	ctx, exporter, record, sourceDir := m.ctx, m.exporter, m.session.Record(), m.imageDir
	return func() tea.Msg {
		result, err := exporter.Export(ctx, descriptor, record, sourceDir)
		return ExportFinishedMsg{Result: result, Err: err}
	}
}

func (m *Model) openViewer() tea.Cmd {
	current, ok := m.session.Current()
	if !ok {
		m.setStatus(levelWarning, "No image to open")
		return nil
	}
	if m.viewer == "" {
		m.setStatus(levelWarning, "No image viewer configured")
		return nil
	}

	c := exec.Command(m.viewer, filepath.Join(m.imageDir, current))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return ViewerFinishedMsg{Err: err}
	})
}

func (m *Model) switchTask(step int) tea.Cmd {
	if len(m.tasks) < 2 {
		m.setStatus(levelInfo, "No other task available")
		return nil
	}
	next := (m.taskIdx + step + len(m.tasks)) % len(m.tasks)
	if err := m.openTask(next); err != nil {
		m.logger.Error("Failed to switch task", "task", m.tasks[next], "error", err)
		m.setStatus(levelError, err.Error())
	}
	return nil
}

func (m *Model) openTask(idx int) error {
	name := m.tasks[idx]
	descriptor, err := task.LoadTask(m.tasksDir, name)
	if err != nil {
		return err
	}
	if err := m.session.Open(descriptor); err != nil {
		return err
	}
	m.taskIdx = idx

	if missing := len(m.session.Missing()); missing > 0 {
		m.setStatus(levelWarning, fmt.Sprintf("Loaded %s, %d images not found in %s", descriptor.TaskName, missing, m.imageDir))
	} else {
		m.setStatus(levelInfo, "Loaded "+descriptor.TaskName)
	}
	m.consumeEvents()
	return nil
}

// currentSize returns the size of the current image on disk
func (m Model) currentSize(name string) (int64, bool) {
	info, err := os.Stat(filepath.Join(m.imageDir, name))
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}
