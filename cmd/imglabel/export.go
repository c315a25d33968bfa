package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lamim/imglabel/internal/export"
	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/internal/task"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <task-file>",
		Short: "Export the labeling results of a task",
		Long: `Write a timestamped export folder containing the results CSV, one folder
per label with copies of the labeled images, an unlabeled folder, a statistics
report and a copy of the progress file.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	name := args[0]
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
	if len(record.LabeledFiles) == 0 {
		logger.Warn("Task has no labeled images yet", "task_id", descriptor.TaskID)
	}

	ctx, stop := signalContext()
	defer stop()

	exporter := export.New(cfg.Paths.OutputDir, logger,
		export.WithMetrics(metrics.NewCollector(logger)),
		export.WithProgressBar(cfg.Split.ShowProgress))

	result, err := exporter.Export(ctx, descriptor, record, cfg.Paths.ImagesDir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println()
	fmt.Printf("Export directory:    %s\n", result.Dir)
	fmt.Printf("Results CSV:         %s\n", result.CSVPath)
	fmt.Printf("Report:              %s\n", result.ReportPath)
	fmt.Printf("Records:             %d\n", result.Records)
	fmt.Printf("Copied:              %d\n", result.Copied)
	fmt.Printf("Unlabeled copied:    %d\n", result.UnlabeledCopied)
	if result.NotFound > 0 {
		fmt.Printf("Not found:           %d\n", result.NotFound)
	}
	if result.CopyErrors > 0 {
		fmt.Printf("Copy errors:         %d\n", result.CopyErrors)
	}
	return nil
}
