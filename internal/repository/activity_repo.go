package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobportal/internal/models"

	"github.com/google/uuid"
)

type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

const insertActivitySQL = `
		INSERT INTO activity_events (id, occurred_at, type, username, message, meta, job_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *ActivitySQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	var jobID *int64
	if e.JobID > 0 {
		jobID = &e.JobID
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		e.OccurredAt.UTC().Format(timestampLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Username,
		e.Description,
		metaPtr,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("insert activity event %s: %w", e.Type, err)
	}
	return nil
}

const (
	selectActivitySQL = `SELECT id, occurred_at, type, username, message, meta, job_id FROM activity_events`
	ownedActivityCond = `(username = ? OR job_id IN (SELECT id FROM jobs WHERE posted_by = ?))`
)

// List returns events filtered by [From, To] (inclusive), type and owner, ordered ASC.
func (r *ActivitySQLite) List(ctx context.Context, aq ActivityQuery) ([]models.ActivityEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !aq.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, aq.From.UTC().Format(timestampLayout))
	}
	if !aq.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, aq.To.UTC().Format(timestampLayout))
	}
	if typ := strings.ToUpper(strings.TrimSpace(aq.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if aq.Username != "" || aq.OwnerID != 0 {
		conds = append(conds, ownedActivityCond)
		args = append(args, aq.Username, aq.OwnerID)
	}

	q := selectActivitySQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ActivityEvent, 0, 64)
	for rows.Next() {
		var (
			ev       models.ActivityEvent
			occurred any
			metaStr  sql.NullString
			jobID    sql.NullInt64
		)
		if err := rows.Scan(&ev.EventID, &occurred, &ev.Type, &ev.Username, &ev.Description, &metaStr, &jobID); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		if ev.OccurredAt, err = parseTimestamp(occurred); err != nil {
			return nil, fmt.Errorf("scan activity event %s: %w", ev.EventID, err)
		}

		ev.JobID = jobID.Int64

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}
	return out, nil
}
