package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/task"
)

var (
	splitImagesDir string
	splitTaskSize  int
	splitShuffle   bool
	splitNoShuffle bool
	splitDryRun    bool
)

func newSplitCmd() *cobra.Command {
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Split the image directory into labeling tasks",
		Long: `Scan the image directory and write one task file per chunk of images,
plus a batch index describing the run. Existing task files are kept; use
"imglabel clear" first to start over.`,
		Args: cobra.NoArgs,
		RunE: runSplit,
	}

	splitCmd.Flags().StringVar(&splitImagesDir, "images", "", "Source image directory (overrides paths.images_dir)")
	splitCmd.Flags().IntVar(&splitTaskSize, "size", 0, "Images per task (overrides split.task_size)")
	splitCmd.Flags().BoolVar(&splitShuffle, "shuffle", false, "Shuffle images before splitting")
	splitCmd.Flags().BoolVar(&splitNoShuffle, "no-shuffle", false, "Keep images in sorted order")
	splitCmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "Print the planned split without writing files")
	splitCmd.MarkFlagsMutuallyExclusive("shuffle", "no-shuffle")

	return splitCmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := task.GenerateOptions{
		ImagesDir: cfg.Paths.ImagesDir,
		TaskSize:  cfg.Split.TaskSize,
		Shuffle:   cfg.Split.Shuffle,
	}
	if cmd.Flags().Changed("images") {
		opts.ImagesDir = splitImagesDir
	}
	if cmd.Flags().Changed("size") {
		opts.TaskSize = splitTaskSize
	}
	if splitShuffle {
		opts.Shuffle = true
	}
	if splitNoShuffle {
		opts.Shuffle = false
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	collector := metrics.NewCollector(logger)
	gen := task.NewGenerator(cfg.Paths.TasksDir, logger,
		task.WithProgressBar(cfg.Split.ShowProgress && !splitDryRun),
		task.WithMetrics(collector))

	if splitDryRun {
		chunks, err := gen.Plan(opts)
		if err != nil {
			return err
		}
		fmt.Print(task.Preview(chunks, opts.TaskSize, opts.Shuffle))
		return nil
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := gen.Generate(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Created %d tasks from %d images in %s\n",
		result.Batch.TotalTasks, result.Batch.TotalImages, cfg.Paths.TasksDir)
	fmt.Printf("Batch index: %s\n", result.IndexFile)
	return nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all task and batch files",
		Long:  "Remove every JSON file in the tasks directory. Progress files are kept.",
		Args:  cobra.NoArgs,
		RunE:  runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	removed, err := task.Clear(cfg.Paths.TasksDir)
	if err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	logger.Info("Tasks cleared", "dir", cfg.Paths.TasksDir, "removed", removed)
	fmt.Printf("Removed %d files from %s\n", removed, cfg.Paths.TasksDir)
	return nil
}
