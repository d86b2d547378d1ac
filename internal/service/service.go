package service

import (
	"context"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/repository"
)

// Authorization covers credential checks and account creation.
type Authorization interface {
	Authenticate(ctx context.Context, username, password string) (models.Principal, error)
	Register(ctx context.Context, username, password string, role models.Role) (*models.User, error)
}

// Sessions issues, resolves and revokes login sessions.
type Sessions interface {
	Issue(ctx context.Context, p models.Principal) (string, *models.Session, error)
	Resolve(ctx context.Context, token string) (*models.Session, error)
	Revoke(ctx context.Context, sessionID string) error
	TTL() time.Duration
}

// Jobs exposes job postings.
type Jobs interface {
	Post(ctx context.Context, poster models.Principal, j models.Job) (int64, error)
	PostedBy(ctx context.Context, poster models.Principal) ([]models.JobSummary, error)
	All(ctx context.Context) ([]models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
}

// Applications exposes job applications.
type Applications interface {
	Apply(ctx context.Context, applicant models.Principal, jobID int64, coverLetter string) (int64, error)
	ForJob(ctx context.Context, owner models.Principal, jobID int64) (*models.Job, []models.Application, error)
}

// ActivityLog exposes the append-only activity log.
type ActivityLog interface {
	Record(ctx context.Context, e models.ActivityEvent) error
	// List returns the viewer's own events and events on jobs the viewer posted.
	List(ctx context.Context, viewer models.Principal, f LogFilter) ([]models.ActivityEvent, error)
}

// Sweeper runs the background loop removing expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Sessions
	Jobs
	Applications
	ActivityLog
	// Sweeper is nil when the session store expires entries by itself.
	Sweeper Sweeper
}

// Options carries settings the services need beyond the repositories.
type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	Log           *logger.Logger
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	s := &Service{
		Authorization: NewAuthService(repos.Users),
		Sessions:      NewSessionService(repos.Sessions, opts.SessionSecret, opts.SessionTTL),
		Jobs:          NewJobService(repos.Jobs),
		Applications:  NewApplicationService(repos.Jobs, repos.Applications),
		ActivityLog:   NewActivityLogService(repos.Activity),
	}
	if purger, ok := repos.Sessions.(repository.SessionPurger); ok {
		s.Sweeper = NewSessionSweeper(purger, opts.Log)
	}
	return s
}
