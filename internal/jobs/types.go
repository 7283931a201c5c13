package jobs

import "time"

// Status is the lifecycle stage of an import job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one asynchronous workbook import.
type Job struct {
	ID           string    `json:"id"`
	Status       Status    `json:"status"`
	SourceFile   string    `json:"source_file"`
	OriginalName string    `json:"original_name"`
	DatasetID    string    `json:"dataset_id,omitempty"`
	Total        int       `json:"total"`
	Processed    int       `json:"processed"`
	Message      string    `json:"message"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
