package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// postingDateLayouts are tried in order when parsing client posting dates.
// Timestamps without an offset are taken as UTC.
var postingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Get loads a job by id
func (s *service) Get(ctx context.Context, id domain.JobID) (domain.Job, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to load job", "err", err, "job_id", id)
		}
		return domain.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// Create validates and stores a new job. A job with the same title, company
// and location yields *domain.ConflictError carrying the existing id.
func (s *service) Create(ctx context.Context, in domain.JobInput) (domain.Job, error) {
	now := s.now()

	postingDate, ok := parsePostingDate(in.PostingDate)
	if !ok {
		postingDate = now
	}

	jobType := domain.JobType(in.JobType)
	if in.JobType == "" {
		jobType = domain.JobTypeFullTime
	}

	j := domain.Job{
		ID:          uuid.Nil,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		PostingDate: postingDate,
		JobType:     jobType,
		Tags:        normalizeTags(in.Tags),
		Description: in.Description,
		URL:         in.URL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validateJob(j); err != nil {
		s.logger.Debug("job rejected by validation", "err", err)
		return domain.Job{}, err
	}

	created, err := s.repo.Insert(ctx, j)
	if err != nil {
		if conflict, ok := domain.IsConflict(err); ok {
			s.logger.Info("duplicate job rejected",
				"existing_job_id", conflict.ExistingID,
				"title", j.Title,
				"company", j.Company,
			)
			return domain.Job{}, err
		}
		s.logger.Error("failed to create job", "err", err)
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("job created", "job_id", created.ID, "title", created.Title, "company", created.Company)

	return created, nil
}

// Update applies a partial change. The merged job is validated as a whole and
// nothing is persisted when any rule fails.
func (s *service) Update(ctx context.Context, id domain.JobID, patch domain.JobPatch) (domain.Job, error) {
	now := s.now()

	updated, err := s.repo.Update(ctx, id, func(j *domain.Job) error {
		applyPatch(j, patch)
		if err := validateJob(*j); err != nil {
			return err
		}
		j.UpdatedAt = now
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.Job{}, fmt.Errorf("update job %s: %w", id, err)
		case isDomainError(err):
			s.logger.Debug("job update rejected", "err", err, "job_id", id)
			return domain.Job{}, err
		default:
			s.logger.Error("failed to update job", "err", err, "job_id", id)
			return domain.Job{}, fmt.Errorf("update job %s: %w", id, err)
		}
	}

	s.invalidate(ctx)
	s.logger.Info("job updated", "job_id", id)

	return updated, nil
}

// Delete removes a job by id
func (s *service) Delete(ctx context.Context, id domain.JobID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to delete job", "err", err, "job_id", id)
		}
		return fmt.Errorf("delete job %s: %w", id, err)
	}

	s.invalidate(ctx)
	s.logger.Info("job deleted", "job_id", id)

	return nil
}

func applyPatch(j *domain.Job, p domain.JobPatch) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.JobType != nil {
		j.JobType = domain.JobType(*p.JobType)
	}
	if p.Tags != nil {
		j.Tags = normalizeTags(*p.Tags)
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.URL != nil {
		j.URL = *p.URL
	}
	if p.PostingDate != nil {
		// an unparseable date keeps the stored value
		if t, ok := parsePostingDate(*p.PostingDate); ok {
			j.PostingDate = t
		}
	}
}

func parsePostingDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range postingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Microsecond), true
		}
	}
	return time.Time{}, false
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func isDomainError(err error) bool {
	if _, ok := domain.IsValidation(err); ok {
		return true
	}
	_, ok := domain.IsConflict(err)
	return ok
}
