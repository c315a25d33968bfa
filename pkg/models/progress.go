package models

// ProgressRecord is the persisted filename -> label mapping for one task
type ProgressRecord struct {
	TaskID       string           `json:"task_id"`
	LabeledFiles map[string]Label `json:"labeled_files"`
	LastUpdated  Timestamp        `json:"last_updated"`
}

// NewProgressRecord returns an empty record for the given task
func NewProgressRecord(taskID string) *ProgressRecord {
	return &ProgressRecord{
		TaskID:       taskID,
		LabeledFiles: make(map[string]Label),
	}
}

// Clone returns a deep copy of the record
func (r *ProgressRecord) Clone() *ProgressRecord {
	cp := &ProgressRecord{
		TaskID:       r.TaskID,
		LabeledFiles: make(map[string]Label, len(r.LabeledFiles)),
		LastUpdated:  r.LastUpdated,
	}
	for k, v := range r.LabeledFiles {
		cp.LabeledFiles[k] = v
	}
	return cp
}
