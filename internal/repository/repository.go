package repository

import (
	"context"
	"database/sql"
	"time"

	"jobportal/internal/models"
)

// Credentials is the credential store used by authentication and registration.
type Credentials interface {
	// Create inserts a user; a taken username yields models.ErrUsernameExists.
	Create(ctx context.Context, u models.User) (int64, error)
	// GetByUsername returns (nil, nil) if no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type JobRepo interface {
	Create(ctx context.Context, j models.Job) (int64, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
	ListByPoster(ctx context.Context, userID int64) ([]models.JobSummary, error)
}

type ApplicationRepo interface {
	Create(ctx context.Context, a models.Application) (int64, error)
	ListByJob(ctx context.Context, jobID int64) ([]models.Application, error)
}

// SessionRepo keeps issued sessions so they can be revoked before the token expires.
type SessionRepo interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionPurger is implemented by session stores without native expiry.
type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type ActivityRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, q ActivityQuery) ([]models.ActivityEvent, error)
}

// ActivityQuery narrows ActivityRepo.List. Zero fields do not filter.
type ActivityQuery struct {
	From time.Time
	To   time.Time
	Type string
	// Username and OwnerID limit the result to events by Username and events
	// on jobs posted by OwnerID.
	Username string
	OwnerID  int64
}

type Repository struct {
	Users        Credentials
	Jobs         JobRepo
	Applications ApplicationRepo
	Sessions     SessionRepo
	Activity     ActivityRepo
}

// NewRepository wires the SQLite implementations. Sessions can be replaced
// afterwards (e.g. by redisstore) before the services are built.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:        NewUserRepository(db),
		Jobs:         NewJobSQLite(db),
		Applications: NewApplicationSQLite(db),
		Sessions:     NewSessionSQLite(db),
		Activity:     NewActivitySQLite(db),
	}
}
