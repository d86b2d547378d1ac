package models

import "time"

// Session is a server-side record of an issued login session.
type Session struct {
	ID        string
	Principal Principal
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
