package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lamim/imglabel/internal/progress"
	"github.com/lamim/imglabel/pkg/models"
)

// Summary holds the derived numbers of an export report
type Summary struct {
	Labeled     int
	Counts      map[models.Label]int
	Unlabeled   int
	TotalFiles  int // Labeled + unlabeled
	TotalSize   int64
	AverageSize float64 // Over labeled entries
}

// Ratio returns the share of label among labeled entries, in percent
func (s Summary) Ratio(label models.Label) float64 {
	return progress.Percent(s.Counts[label], s.Labeled)
}

// UnlabeledRatio returns the share of unlabeled files among all files, in percent
func (s Summary) UnlabeledRatio() float64 {
	return progress.Percent(s.Unlabeled, s.TotalFiles)
}

// Summarize derives report numbers from labeled and unlabeled entries
func Summarize(labeled, unlabeled []Entry) Summary {
	s := Summary{
		Labeled:   len(labeled),
		Counts:    make(map[models.Label]int, len(models.Labels)),
		Unlabeled: len(unlabeled),
	}
	for _, e := range labeled {
		s.Counts[e.Label]++
		s.TotalSize += e.Size
	}
	s.TotalFiles = s.Labeled + s.Unlabeled
	if s.Labeled > 0 {
		s.AverageSize = float64(s.TotalSize) / float64(s.Labeled)
	}
	return s
}

// WriteReport writes the human-readable statistics report
func WriteReport(w io.Writer, task *models.TaskDescriptor, labeled, unlabeled []Entry, generatedAt time.Time) error {
	s := Summarize(labeled, unlabeled)
	divider := strings.Repeat("-", 30)

	var b strings.Builder
	b.WriteString("Task labeling results statistics report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Task ID: %s\n", task.TaskID)
	fmt.Fprintf(&b, "Task name: %s\n", task.TaskName)
	fmt.Fprintf(&b, "Generated time: %s\n\n", generatedAt.Format(timeLayout))

	b.WriteString("Overall statistics:\n")
	fmt.Fprintf(&b, "  Total labeled: %d\n", s.Labeled)
	for _, label := range models.Labels {
		fmt.Fprintf(&b, "  %s: %d\n", label, s.Counts[label])
	}
	fmt.Fprintf(&b, "  unlabeled: %d\n", s.Unlabeled)
	fmt.Fprintf(&b, "  total files: %d\n", s.TotalFiles)
	for _, label := range models.Labels {
		fmt.Fprintf(&b, "  %s ratio: %.1f%%\n", label, s.Ratio(label))
	}
	fmt.Fprintf(&b, "  unlabeled ratio: %.1f%%\n\n", s.UnlabeledRatio())

	b.WriteString("File size statistics:\n")
	fmt.Fprintf(&b, "  Total size: %.2f MB\n", float64(s.TotalSize)/1024/1024)
	fmt.Fprintf(&b, "  Average size: %.2f KB\n", s.AverageSize/1024)

	for _, label := range models.Labels {
		fmt.Fprintf(&b, "\n%s file list:\n", label)
		b.WriteString(divider + "\n")
		// labeled is already sorted by filename
		for _, e := range labeled {
			if e.Label == label {
				writeFileLine(&b, e)
			}
		}
	}

	fmt.Fprintf(&b, "\nUnlabeled file list (total %d files):\n", len(unlabeled))
	b.WriteString(divider + "\n")
	for _, e := range unlabeled {
		writeFileLine(&b, e)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFileLine(b *strings.Builder, e Entry) {
	fmt.Fprintf(b, "  %s (%.1f KB)\n", e.Filename, float64(e.Size)/1024)
}
