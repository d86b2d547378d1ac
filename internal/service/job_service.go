package service

import (
	"context"
	"fmt"
	"strings"

	"jobportal/internal/models"
	"jobportal/internal/repository"
)

type JobService struct {
	jobs repository.JobRepo
}

func NewJobService(jobs repository.JobRepo) *JobService {
	return &JobService{jobs: jobs}
}

var _ Jobs = (*JobService)(nil)

// Post stores a job owned by poster. PostedBy from the input is ignored.
func (s *JobService) Post(ctx context.Context, poster models.Principal, j models.Job) (int64, error) {
	if !poster.IsAdmin() {
		return 0, models.ErrForbidden
	}
	j.Title = strings.TrimSpace(j.Title)
	if j.Title == "" {
		return 0, fmt.Errorf("job title is empty: %w", models.ErrInvalidInput)
	}
	j.Description = strings.TrimSpace(j.Description)
	j.Location = strings.TrimSpace(j.Location)
	j.PostedBy = poster.UserID
	return s.jobs.Create(ctx, j)
}

func (s *JobService) PostedBy(ctx context.Context, poster models.Principal) ([]models.JobSummary, error) {
	return s.jobs.ListByPoster(ctx, poster.UserID)
}

func (s *JobService) All(ctx context.Context) ([]models.Job, error) {
	return s.jobs.ListAll(ctx)
}

func (s *JobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobs.Get(ctx, id)
}
