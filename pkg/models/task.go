package models

// TaskCounters is the progress summary embedded in a task descriptor.
// It is written once at creation time and never kept in sync; the progress
// record is the authority for what has been labeled.
type TaskCounters struct {
	HighQuality int `json:"highQuality"`
	LowQuality  int `json:"lowQuality"`
	Skip        int `json:"skip"`
	Total       int `json:"total"`
}

// TaskDescriptor is one fixed batch of images assigned for a labeling pass
type TaskDescriptor struct {
	TaskID      string       `json:"task_id"`
	TaskName    string       `json:"task_name"`
	CreatedTime Timestamp    `json:"created_time"`
	TotalImages int          `json:"total_images"`
	Images      []string     `json:"images"`
	Status      TaskStatus   `json:"status"`
	Progress    TaskCounters `json:"progress"`
}

// BatchIndex summarizes one run of the task generator
type BatchIndex struct {
	BatchID     string    `json:"batch_id"`
	CreatedTime Timestamp `json:"created_time"`
	TotalTasks  int       `json:"total_tasks"`
	TotalImages int       `json:"total_images"`
	TaskSize    int       `json:"task_size"`
	Shuffled    bool      `json:"shuffled"`
	Tasks       []string  `json:"tasks"` // Task descriptor filenames
}
