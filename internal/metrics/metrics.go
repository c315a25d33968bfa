package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lamim/imglabel/pkg/models"
)

// Collector provides convenience methods for recording metrics.
// Every collector owns its registry so counters can be dumped per run.
// A nil *Collector is valid and records nothing.
type Collector struct {
	logger   *slog.Logger
	registry *prometheus.Registry

	tasksWritten   prometheus.Counter
	imagesSplit    prometheus.Counter
	decisions      *prometheus.CounterVec
	undos          prometheus.Counter
	exportFiles    *prometheus.CounterVec
	exportBytes    prometheus.Counter
	exportDuration prometheus.Histogram
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		logger:   logger,
		registry: reg,
		tasksWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "imglabel_tasks_written_total",
			Help: "Task descriptor files written by the splitter",
		}),
		imagesSplit: factory.NewCounter(prometheus.CounterOpts{
			Name: "imglabel_images_split_total",
			Help: "Images assigned to tasks by the splitter",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imglabel_decisions_total",
			Help: "Labeling decisions persisted, by label",
		}, []string{"label"}),
		undos: factory.NewCounter(prometheus.CounterOpts{
			Name: "imglabel_undo_total",
			Help: "Decisions reverted through undo",
		}),
		exportFiles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imglabel_export_files_total",
			Help: "Files handled during export by destination folder and outcome",
		}, []string{"folder", "status"}), // status: "copied", "not_found", "error"
		exportBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "imglabel_export_bytes_total",
			Help: "Bytes copied into export folders",
		}),
		exportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "imglabel_export_duration_seconds",
			Help:    "Wall time of one export run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),
	}
}

// RecordTaskWritten records one task file with n images
func (c *Collector) RecordTaskWritten(n int) {
	if c == nil {
		return
	}
	c.tasksWritten.Inc()
	c.imagesSplit.Add(float64(n))
}

// RecordDecision records a persisted label decision
func (c *Collector) RecordDecision(label models.Label) {
	if c == nil {
		return
	}
	c.decisions.WithLabelValues(string(label)).Inc()
}

// RecordUndo records a reverted decision
func (c *Collector) RecordUndo() {
	if c == nil {
		return
	}
	c.undos.Inc()
}

// RecordExportFile records the outcome of one export copy
func (c *Collector) RecordExportFile(folder, status string, bytes int64) {
	if c == nil {
		return
	}
	c.exportFiles.WithLabelValues(folder, status).Inc()
	if bytes > 0 {
		c.exportBytes.Add(float64(bytes))
	}
}

// RecordExportDuration records how long an export took
func (c *Collector) RecordExportDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.exportDuration.Observe(d.Seconds())
}

// Gatherer exposes the underlying registry
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile dumps the current metrics in the text exposition format,
// suitable for a node_exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	c.logger.Debug("Metrics written", "path", path)
	return nil
}
