package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/internal/task"
)

func newTasksCmd() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect labeling tasks",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all task files with their labeling progress",
		Args:  cobra.NoArgs,
		RunE:  listTasks,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <task-file>",
		Short: "Show details of one task",
		Long:  "Display the task descriptor together with the labeling progress recorded for it",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectTask,
	}

	tasksCmd.AddCommand(listCmd)
	tasksCmd.AddCommand(inspectCmd)
	return tasksCmd
}

// listTasks prints every task file with its labeling progress
func listTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	names, err := task.ListTasks(cfg.Paths.TasksDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("No tasks found in %s. Run \"imglabel split\" first.\n", cfg.Paths.TasksDir)
		return nil
	}

	store := progress.NewStore(cfg.Paths.ProgressDir, logger)

	fmt.Printf("%-40s %-10s %-10s %s\n", "TASK", "LABELED", "TOTAL", "PROGRESS")
	fmt.Println(strings.Repeat("-", 80))

	for _, name := range names {
		descriptor, err := task.LoadTask(cfg.Paths.TasksDir, name)
		if err != nil {
			logger.Warn("Skipping unreadable task file", "file", name, "error", err)
			continue
		}

		labeled := "N/A"
		percent := 0.0
		if record, err := store.Load(descriptor.TaskID); err == nil {
			stats := progress.Compute(record)
			labeled = fmt.Sprint(stats.Labeled)
			percent = progress.Percent(stats.Labeled, len(descriptor.Images))
		} else {
			logger.Warn("Failed to read progress", "task_id", descriptor.TaskID, "error", err)
		}

		fmt.Printf("%-40s %-10s %-10d %.1f%%\n", name, labeled, len(descriptor.Images), percent)
	}

	return nil
}

// inspectTask displays detailed information about one task
func inspectTask(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Task names come from the command line and are joined onto tasks_dir
	if err := task.ValidateTaskFilename(name); err != nil {
		return fmt.Errorf("invalid task file: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	descriptor, err := task.LoadTask(cfg.Paths.TasksDir, name)
	if err != nil {
		return err
	}

	store := progress.NewStore(cfg.Paths.ProgressDir, logger)
	record, err := store.Load(descriptor.TaskID)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	stats := progress.Compute(record)
	remaining := progress.Remaining(descriptor, record)
	total := len(descriptor.Images)

	fmt.Printf("Task Information for: %s\n", name)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Task ID:             %s\n", descriptor.TaskID)
	fmt.Printf("Task Name:           %s\n", descriptor.TaskName)
	fmt.Printf("Created At:          %s\n", formatTimestamp(descriptor.CreatedTime.Time))
	fmt.Printf("Status:              %s\n", descriptor.Status)
	fmt.Printf("Images:              %d\n", total)
	fmt.Println()

	fmt.Println("Labeling Progress:")
	fmt.Printf("  Labeled:           %d / %d (%.1f%%)\n", stats.Labeled, total, progress.Percent(stats.Labeled, total))
	fmt.Printf("  highQuality:       %d\n", stats.HighQuality)
	fmt.Printf("  lowQuality:        %d\n", stats.LowQuality)
	fmt.Printf("  skip:              %d\n", stats.Skip)
	fmt.Printf("  Remaining:         %d\n", len(remaining))
	fmt.Printf("  Last Updated:      %s\n", formatTimestamp(record.LastUpdated.Time))
	fmt.Printf("  Progress File:     %s\n", store.Path(descriptor.TaskID))
	fmt.Println()

	if len(remaining) > 0 {
		fmt.Println("To continue labeling:")
		fmt.Printf("  imglabel label %s\n", name)
	} else {
		fmt.Println("All images are labeled. To export the results:")
		fmt.Printf("  imglabel export %s\n", name)
	}

	return nil
}
