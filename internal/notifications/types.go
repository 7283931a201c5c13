package notifications

import "time"

// Severity grades a notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification types emitted by the scheduler.
const (
	TypeImportCompleted = "import_completed"
	TypeImportFailed    = "import_failed"
)

// Notification is one event worth telling subscribers about.
type Notification struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Severity  Severity          `json:"severity"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Payload   map[string]string `json:"payload,omitempty"`
	Delivered bool              `json:"delivered"`
	CreatedAt time.Time         `json:"created_at"`
}

// ListFilter controls which notifications to return.
type ListFilter struct {
	Type  string
	Since time.Time
	Limit int
}
