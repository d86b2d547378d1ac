package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobportal/internal/models"
)

type JobSQLite struct {
	db *sql.DB
}

func NewJobSQLite(db *sql.DB) *JobSQLite { return &JobSQLite{db: db} }

var _ JobRepo = (*JobSQLite)(nil)

const (
	insertJobSQL = `INSERT INTO jobs (title, description, location, posted_by) VALUES (?, ?, ?, ?)`
	selectJobSQL = `SELECT id, title, description, location, posted_by FROM jobs WHERE id = ?`
	listJobsSQL  = `SELECT id, title, description, location, posted_by FROM jobs ORDER BY id DESC`

	listJobsByPosterSQL = `
		SELECT j.id, j.title, j.description, j.location, j.posted_by, COUNT(a.id)
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id
		WHERE j.posted_by = ?
		GROUP BY j.id
		ORDER BY j.id DESC`
)

func (r *JobSQLite) Create(ctx context.Context, j models.Job) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertJobSQL, j.Title, nullIfEmpty(j.Description), nullIfEmpty(j.Location), j.PostedBy)
	if err != nil {
		return 0, fmt.Errorf("insert job %q: %w", j.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for job %q: %w", j.Title, err)
	}
	return id, nil
}

// Get returns models.ErrNotFound when the job does not exist.
func (r *JobSQLite) Get(ctx context.Context, id int64) (*models.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, selectJobSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("select job %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("select job %d: %w", id, err)
	}
	return &j, nil
}

func (r *JobSQLite) ListAll(ctx context.Context) ([]models.Job, error) {
	rows, err := r.db.QueryContext(ctx, listJobsSQL)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Job, 0, 16)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

func (r *JobSQLite) ListByPoster(ctx context.Context, userID int64) ([]models.JobSummary, error) {
	rows, err := r.db.QueryContext(ctx, listJobsByPosterSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs posted by %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.JobSummary, 0, 16)
	for rows.Next() {
		var (
			s         models.JobSummary
			desc, loc sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &desc, &loc, &s.PostedBy, &s.Applications); err != nil {
			return nil, fmt.Errorf("scan job summary: %w", err)
		}
		s.Description, s.Location = desc.String, loc.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs posted by %d: %w", userID, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (models.Job, error) {
	var (
		j         models.Job
		desc, loc sql.NullString
	)
	if err := row.Scan(&j.ID, &j.Title, &desc, &loc, &j.PostedBy); err != nil {
		return models.Job{}, err
	}
	j.Description, j.Location = desc.String, loc.String
	return j, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
