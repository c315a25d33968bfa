package task

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lamim/imglabel/internal/metrics"
	"github.com/lamim/imglabel/internal/util"
	"github.com/lamim/imglabel/pkg/models"
)

// StampLayout formats the generation timestamp embedded in task and batch names
const StampLayout = "20060102_150405"

// GenerateOptions controls one generation run
type GenerateOptions struct {
	ImagesDir string
	TaskSize  int
	Shuffle   bool
}

// GenerateResult describes the files written by one generation run
type GenerateResult struct {
	Batch     models.BatchIndex
	TaskFiles []string // Paths of the written task descriptors
	IndexFile string   // Path of the batch index
}

// Generator writes task descriptor files and batch indexes
type Generator struct {
	tasksDir     string
	logger       *slog.Logger
	metrics      *metrics.Collector
	rng          *rand.Rand
	now          func() time.Time
	showProgress bool
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithRand sets the random source used for shuffling
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rng = rng }
}

// WithClock overrides the time source used for stamps
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithProgressBar enables the terminal progress bar while writing
func WithProgressBar(show bool) GeneratorOption {
	return func(g *Generator) { g.showProgress = show }
}

// WithMetrics attaches a metrics collector
func WithMetrics(c *metrics.Collector) GeneratorOption {
	return func(g *Generator) { g.metrics = c }
}

// NewGenerator creates a generator writing into tasksDir
func NewGenerator(tasksDir string, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		tasksDir: tasksDir,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TaskID builds the identifier for the index-th (1-based) task of a batch
func TaskID(stamp string, index int) string {
	return fmt.Sprintf("task_%s_%03d", stamp, index)
}

// Plan scans the image directory and splits it without writing anything
func (g *Generator) Plan(opts GenerateOptions) ([][]string, error) {
	if opts.TaskSize <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidTaskSize, opts.TaskSize)
	}

	images, err := ScanImages(opts.ImagesDir)
	if err != nil {
		return nil, err
	}

	return Split(images, opts.TaskSize, opts.Shuffle, g.rng)
}

// Generate splits the image directory into task files plus one batch index.
// Writing is not transactional: if a write fails, files already written stay
// on disk and the error reports how many were completed.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	chunks, err := g.Plan(opts)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, opts.ImagesDir)
	}

	stamp := g.now().Format(StampLayout)
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	g.logger.Info("Generating task files",
		"images", total,
		"tasks", len(chunks),
		"task_size", opts.TaskSize,
		"shuffle", opts.Shuffle,
		"tasks_dir", g.tasksDir)

	var bar *progressbar.ProgressBar
	if g.showProgress {
		bar = progressbar.Default(int64(len(chunks)), "Writing tasks")
	} else {
		bar = progressbar.DefaultSilent(int64(len(chunks)), "Writing tasks")
	}

	result := &GenerateResult{}
	taskNames := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("generation cancelled after %d of %d task files: %w", len(taskNames), len(chunks), err)
		}

		id := TaskID(stamp, i+1)
		descriptor := models.TaskDescriptor{
			TaskID:      id,
			TaskName:    fmt.Sprintf("Task %d", i+1),
			CreatedTime: models.Timestamp{Time: g.now()},
			TotalImages: len(chunk),
			Images:      chunk,
			Status:      models.TaskStatusPending,
			Progress:    models.TaskCounters{Total: len(chunk)},
		}

		name := id + ".json"
		path := filepath.Join(g.tasksDir, name)
		if err := util.WriteJSONFile(path, descriptor); err != nil {
			return result, fmt.Errorf("failed to write task file %s (%d of %d written): %w", name, len(taskNames), len(chunks), err)
		}

		taskNames = append(taskNames, name)
		result.TaskFiles = append(result.TaskFiles, path)
		g.metrics.RecordTaskWritten(len(chunk))
		g.logger.Debug("Task file written", "path", path, "images", len(chunk))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	result.Batch = models.BatchIndex{
		BatchID:     stamp,
		CreatedTime: models.Timestamp{Time: g.now()},
		TotalTasks:  len(chunks),
		TotalImages: total,
		TaskSize:    opts.TaskSize,
		Shuffled:    opts.Shuffle,
		Tasks:       taskNames,
	}

	indexPath := filepath.Join(g.tasksDir, "batch_"+stamp+".json")
	if err := util.WriteJSONFile(indexPath, result.Batch); err != nil {
		return result, fmt.Errorf("failed to write batch index (%d task files written): %w", len(taskNames), err)
	}
	result.IndexFile = indexPath

	g.logger.Info("Task generation complete",
		"task_files", len(taskNames),
		"index_file", indexPath,
		"images", total)

	return result, nil
}
