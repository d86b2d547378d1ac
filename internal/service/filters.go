package service

import "time"

// LogFilter supports activity filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "REGISTERED", "LOGIN", "LOGIN_FAILED", "LOGOUT", "JOB_POSTED", "APPLIED"
}

// Activity event types.
const (
	EventRegistered  = "REGISTERED"
	EventLogin       = "LOGIN"
	EventLoginFailed = "LOGIN_FAILED"
	EventLogout      = "LOGOUT"
	EventJobPosted   = "JOB_POSTED"
	EventApplied     = "APPLIED"
)
