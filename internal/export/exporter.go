package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/util"
	"github.com/lamim/imglabel/pkg/models"
)

// MetricsFilename is the prometheus textfile written into every export
const MetricsFilename = "metrics.prom"

// Result describes one export run
type Result struct {
	Dir             string
	CSVPath         string
	ReportPath      string
	ProgressCopy    string // Snapshot of the record the export was built from
	Records         int    // Rows written to the CSV
	Copied          int    // Labeled files copied into label folders
	UnlabeledCopied int
	NotFound        int // Labeled files missing from the source directory
	CopyErrors      int // Failed copies and rejected filenames
}

// Exporter writes export snapshots of a task's labeling progress.
// Source images and the progress record are only read, never changed.
type Exporter struct {
	outputDir    string
	logger       *slog.Logger
	metrics      *metrics.Collector
	now          func() time.Time
	showProgress bool
	warnMissing  *rate.Sometimes
}

// Option customizes an Exporter
type Option func(*Exporter)

// WithMetrics attaches a metrics collector whose counters are dumped per export
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Exporter) { e.metrics = c }
}

// WithClock overrides the time source used for stamps
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithProgressBar enables the terminal progress bar while copying
func WithProgressBar(show bool) Option {
	return func(e *Exporter) { e.showProgress = show }
}

// New creates an exporter writing below outputDir
func New(outputDir string, logger *slog.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		outputDir:   outputDir,
		logger:      logger,
		now:         time.Now,
		warnMissing: &rate.Sometimes{First: 10, Interval: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the CSV, label folders, report, progress copy and metrics
// for the current state of record. Every artifact is built from one snapshot
// of record, so decisions saved while the export runs never leak into it.
// Per-file copy failures are counted and logged; they do not stop the
// export. Any other failure leaves the partially written directory in place
// and is returned with the partial result.
func (e *Exporter) Export(ctx context.Context, descriptor *models.TaskDescriptor, record *models.ProgressRecord, sourceDir string) (*Result, error) {
	start := e.now()
	stamp := start.Format(StampLayout)
	taskID := descriptor.TaskID
	if !util.IsPlainName(taskID) {
		return nil, fmt.Errorf("invalid task id %q", taskID)
	}

	dir, err := createOutputDir(e.outputDir, taskID, stamp)
	if err != nil {
		return nil, err
	}
	result := &Result{Dir: dir}

	// Snapshot so later decisions cannot leak into this export
	snapshot := record.Clone()
	labeled := LabeledEntries(snapshot, sourceDir)
	unlabeled := UnlabeledEntries(descriptor, snapshot, sourceDir)

	e.logger.Info("Exporting task results",
		"task_id", taskID,
		"dir", dir,
		"labeled", len(labeled),
		"unlabeled", len(unlabeled))

	result.CSVPath = filepath.Join(dir, fmt.Sprintf("task_%s_results_%s.csv", taskID, stamp))
	if err := writeFile(result.CSVPath, func(w io.Writer) error { return WriteCSV(w, labeled) }); err != nil {
		return result, err
	}
	result.Records = len(labeled)

	folders := map[string]string{FolderUnlabeled: filepath.Join(dir, FolderUnlabeled)}
	for _, label := range models.Labels {
		folders[string(label)] = filepath.Join(dir, string(label))
	}
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return result, fmt.Errorf("failed to create export folder: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	if e.showProgress {
		bar = progressbar.Default(int64(len(labeled)+len(unlabeled)), "Copying images")
	} else {
		bar = progressbar.DefaultSilent(int64(len(labeled)+len(unlabeled)), "Copying images")
	}

	for _, entry := range labeled {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("export cancelled: %w", err)
		}
		_ = bar.Add(1)

		folder := string(entry.Label)
		if !util.IsPlainName(entry.Filename) {
			e.rejectEntry(folder, entry)
			result.CopyErrors++
			continue
		}
		if !entry.Exists {
			result.NotFound++
			e.metrics.RecordExportFile(folder, "not_found", 0)
			e.warnMissing.Do(func() {
				e.logger.Warn("Labeled file not found in source directory", "filename", entry.Filename)
			})
			continue
		}
		if e.copyEntry(sourceDir, folders[folder], folder, entry) {
			result.Copied++
		} else {
			result.CopyErrors++
		}
	}

	for _, entry := range unlabeled {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("export cancelled: %w", err)
		}
		_ = bar.Add(1)

		if !util.IsPlainName(entry.Filename) {
			e.rejectEntry(FolderUnlabeled, entry)
			result.CopyErrors++
			continue
		}
		if e.copyEntry(sourceDir, folders[FolderUnlabeled], FolderUnlabeled, entry) {
			result.UnlabeledCopied++
		} else {
			result.CopyErrors++
		}
	}
	_ = bar.Finish()

	result.ReportPath = filepath.Join(dir, fmt.Sprintf("task_%s_report_%s.txt", taskID, stamp))
	if err := writeFile(result.ReportPath, func(w io.Writer) error {
		return WriteReport(w, descriptor, labeled, unlabeled, e.now())
	}); err != nil {
		return result, err
	}

	progressCopy := filepath.Join(dir, fmt.Sprintf("task_progress_%s_%s.json", taskID, stamp))
	if err := util.WriteJSONFile(progressCopy, snapshot); err != nil {
		return result, fmt.Errorf("failed to write progress copy: %w", err)
	}
	result.ProgressCopy = progressCopy

	e.metrics.RecordExportDuration(e.now().Sub(start))
	if err := e.metrics.WriteTextfile(filepath.Join(dir, MetricsFilename)); err != nil {
		e.logger.Warn("Failed to write export metrics", "error", err)
	}

	e.logger.Info("Export complete",
		"dir", dir,
		"records", result.Records,
		"copied", result.Copied,
		"unlabeled_copied", result.UnlabeledCopied,
		"not_found", result.NotFound,
		"copy_errors", result.CopyErrors)

	return result, nil
}

// copyEntry copies one image into folder and reports whether it succeeded
func (e *Exporter) copyEntry(sourceDir, folderPath, folder string, entry Entry) bool {
	src := filepath.Join(sourceDir, entry.Filename)
	dst := filepath.Join(folderPath, entry.Filename)
	if err := util.CopyFile(src, dst); err != nil {
		e.logger.Error("Failed to copy file", "filename", entry.Filename, "folder", folder, "error", err)
		e.metrics.RecordExportFile(folder, "error", 0)
		return false
	}
	e.metrics.RecordExportFile(folder, "copied", entry.Size)
	return true
}

// rejectEntry logs a filename that would resolve outside its directory
func (e *Exporter) rejectEntry(folder string, entry Entry) {
	e.logger.Error("Rejected filename outside the image directory", "filename", entry.Filename, "folder", folder)
	e.metrics.RecordExportFile(folder, "error", 0)
}

// writeFile creates path and streams content into it
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}
