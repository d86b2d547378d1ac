package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobportal/internal/models"
)

type ApplicationSQLite struct {
	db *sql.DB
}

func NewApplicationSQLite(db *sql.DB) *ApplicationSQLite { return &ApplicationSQLite{db: db} }

var _ ApplicationRepo = (*ApplicationSQLite)(nil)

const (
	insertApplicationSQL = `INSERT INTO applications (job_id, applicant_id, application_date, cover_letter) VALUES (?, ?, ?, ?)`

	listApplicationsByJobSQL = `
		SELECT a.id, a.job_id, a.applicant_id, u.username, a.application_date, a.cover_letter
		FROM applications a
		JOIN users u ON u.id = a.applicant_id
		WHERE a.job_id = ?
		ORDER BY a.application_date ASC, a.id ASC`
)

// Create stores an application. A zero ApplicationDate is set to now.
func (r *ApplicationSQLite) Create(ctx context.Context, a models.Application) (int64, error) {
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertApplicationSQL,
		a.JobID,
		a.ApplicantID,
		a.ApplicationDate.UTC().Format(timestampLayout),
		nullIfEmpty(a.CoverLetter),
	)
	if err != nil {
		return 0, fmt.Errorf("insert application for job %d: %w", a.JobID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for application: %w", err)
	}
	return id, nil
}

func (r *ApplicationSQLite) ListByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, listApplicationsByJobSQL, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications for job %d: %w", jobID, err)
	}
	defer rows.Close()

	out := make([]models.Application, 0, 16)
	for rows.Next() {
		var (
			a     models.Application
			date  any
			cover sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.ApplicantName, &date, &cover); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if a.ApplicationDate, err = parseTimestamp(date); err != nil {
			return nil, fmt.Errorf("scan application %d: %w", a.ID, err)
		}
		a.CoverLetter = cover.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications for job %d: %w", jobID, err)
	}
	return out, nil
}
