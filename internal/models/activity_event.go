package models

import "time"

// ActivityEvent is a single entry of the portal activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // REGISTERED | LOGIN | LOGIN_FAILED | LOGOUT | JOB_POSTED | APPLIED
	Username    string    `json:"username"`    // actor, may be an unknown name for LOGIN_FAILED
	Description string    `json:"description"` // human-readable
	JobID       int64     `json:"job_id,omitempty"`
	Metadata    any       `json:"metadata,omitempty"`
}
