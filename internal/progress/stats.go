package progress

import "github.com/lamim/imglabel/pkg/models"

// Stats summarizes a progress record by label
type Stats struct {
	HighQuality int
	LowQuality  int
	Skip        int
	Labeled     int
}

// Count returns the number of entries carrying label l
func (s Stats) Count(l models.Label) int {
	switch l {
	case models.LabelHighQuality:
		return s.HighQuality
	case models.LabelLowQuality:
		return s.LowQuality
	case models.LabelSkip:
		return s.Skip
	}
	return 0
}

// Compute counts the entries of a record per label
func Compute(record *models.ProgressRecord) Stats {
	var s Stats
	if record == nil {
		return s
	}
	for _, label := range record.LabeledFiles {
		switch label {
		case models.LabelHighQuality:
			s.HighQuality++
		case models.LabelLowQuality:
			s.LowQuality++
		case models.LabelSkip:
			s.Skip++
		}
	}
	s.Labeled = len(record.LabeledFiles)
	return s
}

// Remaining returns the task images that have no entry in the record
func Remaining(task *models.TaskDescriptor, record *models.ProgressRecord) []string {
	var pending []string
	for _, name := range task.Images {
		if _, done := record.LabeledFiles[name]; !done {
			pending = append(pending, name)
		}
	}
	return pending
}

// Percent returns part/whole as a percentage, or 0 when whole is 0
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0.0
	}
	return float64(part) / float64(whole) * 100.0
}
