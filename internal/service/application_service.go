package service

import (
	"context"
	"strings"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/repository"
)

type ApplicationService struct {
	jobs repository.JobRepo
	apps repository.ApplicationRepo
	now  func() time.Time
}

func NewApplicationService(jobs repository.JobRepo, apps repository.ApplicationRepo) *ApplicationService {
	return &ApplicationService{jobs: jobs, apps: apps, now: time.Now}
}

var _ Applications = (*ApplicationService)(nil)

// Apply records an application for jobID. A missing job yields models.ErrNotFound.
func (s *ApplicationService) Apply(ctx context.Context, applicant models.Principal, jobID int64, coverLetter string) (int64, error) {
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return 0, err
	}
	return s.apps.Create(ctx, models.Application{
		JobID:           jobID,
		ApplicantID:     applicant.UserID,
		ApplicationDate: s.now().UTC().Truncate(time.Second),
		CoverLetter:     strings.TrimSpace(coverLetter),
	})
}

// ForJob lists applications of a job posted by owner. Jobs of other admins
// yield models.ErrForbidden.
func (s *ApplicationService) ForJob(ctx context.Context, owner models.Principal, jobID int64) (*models.Job, []models.Application, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.PostedBy != owner.UserID {
		return nil, nil, models.ErrForbidden
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	return job, apps, nil
}
