package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Label represents the decision an annotator made for one image
type Label string

const (
	// LabelHighQuality marks an image as good enough to keep
	LabelHighQuality Label = "highQuality"
	// LabelLowQuality marks an image as unusable
	LabelLowQuality Label = "lowQuality"
	// LabelSkip records that the annotator passed on the image
	LabelSkip Label = "skip"
)

// Labels lists every label in report order
var Labels = []Label{LabelHighQuality, LabelLowQuality, LabelSkip}

// Valid reports whether l is one of the known labels
func (l Label) Valid() bool {
	switch l {
	case LabelHighQuality, LabelLowQuality, LabelSkip:
		return true
	}
	return false
}

// ParseLabel converts a string into a Label
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown label %q (expected one of: highQuality, lowQuality, skip)", s)
	}
	return l, nil
}

// UnmarshalText rejects labels outside the known set
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// TaskStatus is the informational lifecycle tag stored in a task descriptor
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// timestampLayout matches the ISO-8601 form written by the labeling tools
const timestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp is a local time serialized as ISO-8601 without a zone offset
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return Timestamp{Time: time.Now()}
}

// MarshalJSON writes the timestamp in ISO-8601 form
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(timestampLayout) + `"`), nil
}

// UnmarshalJSON accepts ISO-8601 with or without fractional seconds, and RFC 3339
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", time.RFC3339Nano} {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
