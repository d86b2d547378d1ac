package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/repository"
)

type ActivityLogService struct {
	activityRepo repository.ActivityRepo
	now          func() time.Time
}

func NewActivityLogService(activityRepo repository.ActivityRepo) *ActivityLogService {
	return &ActivityLogService{activityRepo: activityRepo, now: time.Now}
}

var _ ActivityLog = (*ActivityLogService)(nil)

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errEmptyEventType   = errors.New("event type is empty")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

// Record appends e, stamping the time when the caller left it zero.
func (s *ActivityLogService) Record(ctx context.Context, e models.ActivityEvent) error {
	e.Type = normalizeEventType(e.Type)
	if e.Type == "" {
		return errEmptyEventType
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}
	e.OccurredAt = e.OccurredAt.UTC()
	return s.activityRepo.Append(ctx, e)
}

// List is scoped to viewer: an admin never sees another admin's jobs through
// the log.
func (s *ActivityLogService) List(ctx context.Context, viewer models.Principal, f LogFilter) ([]models.ActivityEvent, error) {
	if viewer.Username == "" || viewer.UserID <= 0 {
		return nil, fmt.Errorf("activity log without a viewer: %w", models.ErrForbidden)
	}
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.activityRepo.List(ctx, repository.ActivityQuery{
		From:     from,
		To:       to,
		Type:     typ,
		Username: viewer.Username,
		OwnerID:  viewer.UserID,
	})
}
