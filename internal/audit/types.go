package audit

import "time"

// ActorType distinguishes operator-initiated actions from system ones.
type ActorType string

const (
	ActorOperator ActorType = "operator"
	ActorSystem   ActorType = "system"
)

// Well-known actions recorded by the scheduler.
const (
	ActionDatasetImported = "dataset_imported"
	ActionZonesFiltered   = "zones_filtered"
	ActionPullingSelected = "pulling_selected"
	ActionPlanGenerated   = "plan_generated"
)

// Entry is one line of the action trail.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorType ActorType `json:"actor_type"`
	ActorID   string    `json:"actor_id"` // session ID or "worker"
	Action    string    `json:"action"`
	Scope     string    `json:"scope"` // "dataset", "session"
	ScopeID   string    `json:"scope_id"`
	Summary   string    `json:"summary"`
	Detail    string    `json:"detail,omitempty"`
}

// ListFilter controls which entries to return.
type ListFilter struct {
	Action string
	Scope  string
	Limit  int
}
