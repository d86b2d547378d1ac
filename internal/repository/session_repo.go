package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobportal/internal/models"
)

// SessionSQLite stores sessions in the main database. Expired rows are
// ignored on read and removed by PurgeExpired.
type SessionSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db, now: time.Now}
}

var (
	_ SessionRepo   = (*SessionSQLite)(nil)
	_ SessionPurger = (*SessionSQLite)(nil)
)

const (
	insertSessionSQL        = `INSERT INTO sessions (id, user_id, username, role, expires_at) VALUES (?, ?, ?, ?, ?)`
	selectSessionSQL        = `SELECT id, user_id, username, role, expires_at FROM sessions WHERE id = ?`
	deleteSessionSQL        = `DELETE FROM sessions WHERE id = ?`
	purgeExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

func (r *SessionSQLite) Save(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.ID,
		s.Principal.UserID,
		s.Principal.Username,
		string(s.Principal.Role),
		s.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session for %q: %w", s.Principal.Username, err)
	}
	return nil
}

// Get returns models.ErrSessionNotFound for unknown or expired sessions.
func (r *SessionSQLite) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		s       models.Session
		role    string
		expires int64
	)
	err := r.db.QueryRowContext(ctx, selectSessionSQL, id).
		Scan(&s.ID, &s.Principal.UserID, &s.Principal.Username, &role, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.Principal.Role = models.Role(role)
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	if s.Expired(r.now()) {
		return nil, models.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionSQLite) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions that expired at or before now and reports how many.
func (r *SessionSQLite) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeExpiredSessionsSQL, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return n, nil
}
