package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lamim/imglabel/internal/export"
	"github.com/lamim/imglabel/internal/labeling"
	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/internal/task"
	"github.com/lamim/imglabel/internal/tui"
)

func newLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label [task-file]",
		Short: "Label images in the terminal",
		Long: `Open a task in the interactive labeler. Every decision is saved
immediately, so quitting and reopening the same task resumes at the first
unlabeled image. Without an argument the first task is opened.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLabel,
	}
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the labeler; logs go to the log file only
	logger, closeLog, err := setupLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	names, err := task.ListTasks(cfg.Paths.TasksDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no tasks found in %s, run \"imglabel split\" first", cfg.Paths.TasksDir)
	}

	start := 0
	if len(args) == 1 {
		if err := task.ValidateTaskFilename(args[0]); err != nil {
			return fmt.Errorf("invalid task file: %w", err)
		}
		start = indexOf(names, args[0])
		if start < 0 {
			return fmt.Errorf("%w: %s", task.ErrTaskNotFound, args[0])
		}
	}

	collector := metrics.NewCollector(logger)
	sessionOpts := []labeling.Option{
		labeling.WithLogger(logger),
		labeling.WithMetrics(collector),
		labeling.WithUndoLimit(cfg.Labeling.UndoLimit),
	}
	if cfg.Labeling.CheckImageDir {
		sessionOpts = append(sessionOpts, labeling.WithImageDir(cfg.Paths.ImagesDir))
	}
	session := labeling.NewSession(progress.NewStore(cfg.Paths.ProgressDir, logger), sessionOpts...)

	exporter := export.New(cfg.Paths.OutputDir, logger,
		export.WithMetrics(collector))

	ctx, stop := signalContext()
	defer stop()

	model, err := tui.New(ctx, tui.Options{
		Session:   session,
		Exporter:  exporter,
		Logger:    logger,
		TasksDir:  cfg.Paths.TasksDir,
		Tasks:     names,
		StartTask: start,
		ImageDir:  cfg.Paths.ImagesDir,
		Viewer:    cfg.Labeling.Viewer,
	})
	if err != nil {
		return err
	}

	logger.Info("Labeler starting", "version", Version, "config", configPath, "task", names[start])

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("labeler failed: %w", err)
	}

	stats := session.Stats()
	fmt.Printf("Labeled %d of %d images in %s\n", stats.Labeled, len(session.Task().Images), session.Task().TaskName)
	return nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04:05")
}
