package service

import (
	"context"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/repository"
)

const defaultSweepInterval = time.Minute

// SessionSweeper periodically deletes expired sessions from stores that
// do not expire entries on their own.
type SessionSweeper struct {
	purger repository.SessionPurger
	log    *logger.Logger
}

func NewSessionSweeper(purger repository.SessionPurger, log *logger.Logger) *SessionSweeper {
	return &SessionSweeper{purger: purger, log: log}
}

var _ Sweeper = (*SessionSweeper)(nil)

// Run blocks until ctx is cancelled.
func (s *SessionSweeper) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = defaultSweepInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context, now time.Time) {
	n, err := s.purger.PurgeExpired(ctx, now)
	if err != nil {
		if s.log != nil && ctx.Err() == nil {
			s.log.Errorw("session_sweep_failed", "error", err)
		}
		return
	}
	if n > 0 && s.log != nil {
		s.log.Debugw("sessions_purged", "count", n)
	}
}
