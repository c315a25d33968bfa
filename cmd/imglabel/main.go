package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lamim/imglabel/internal/config"
	"github.com/lamim/imglabel/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imglabel",
		Short: "imglabel - Image quality labeling workflow",
		Long: `imglabel splits a directory of images into fixed-size labeling tasks,
lets an annotator label each image as highQuality, lowQuality or skip in a
resumable terminal session, and exports the results as CSV, per-label
folders and a statistics report.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newLabelCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// loadConfig reads the config file. The default path may be absent; an
// explicitly passed one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.Load(configPath, !explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the process logger. Interactive commands pass a nil
// console so log lines never land on top of the terminal UI.
func setupLogger(cfg *config.Config, console io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger, closer, err := logging.Setup(logging.Options{
		Level:   level,
		Console: console,
		File:    cfg.Logging.File,
	})
	if err != nil {
		return nil, closer, fmt.Errorf("failed to setup logger: %w", err)
	}
	return logger, closer, nil
}

// signalContext is cancelled on SIGINT or SIGTERM for graceful shutdown
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
