// Package memory keeps jobs in process memory. It backs tests and local runs
// without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
	"github.com/honeycarbs/jobboard/internal/domain/job"
)

var _ job.Repository = (*JobRepository)(nil)

type identity struct {
	title, company, location string
}

func identityOf(j domain.Job) identity {
	return identity{title: j.Title, company: j.Company, location: j.Location}
}

// JobRepository implements job.Repository over a map guarded by a RWMutex
type JobRepository struct {
	mu     sync.RWMutex
	jobs   map[domain.JobID]domain.Job
	unique map[identity]domain.JobID
}

// NewJobRepository creates an empty JobRepository
func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs:   make(map[domain.JobID]domain.Job),
		unique: make(map[identity]domain.JobID),
	}
}

// Insert stores a new job, assigning an id when unset
func (r *JobRepository) Insert(_ context.Context, j domain.Job) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.unique[identityOf(j)]; ok {
		return domain.Job{}, &domain.ConflictError{ExistingID: existing}
	}

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if _, ok := r.jobs[j.ID]; ok {
		return domain.Job{}, fmt.Errorf("memory: duplicate job id %s", j.ID)
	}

	j = clone(j)
	r.jobs[j.ID] = j
	r.unique[identityOf(j)] = j.ID

	return clone(j), nil
}

// Get loads a job by id
func (r *JobRepository) Get(_ context.Context, id domain.JobID) (domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return clone(j), nil
}

// Update applies mutate to a copy and stores it only when mutate succeeds
func (r *JobRepository) Update(_ context.Context, id domain.JobID, mutate func(*domain.Job) error) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}

	next := clone(current)
	if err := mutate(&next); err != nil {
		return domain.Job{}, err
	}
	next.ID = id

	key := identityOf(next)
	if owner, ok := r.unique[key]; ok && owner != id {
		return domain.Job{}, &domain.ConflictError{ExistingID: owner}
	}

	delete(r.unique, identityOf(current))
	r.unique[key] = id
	r.jobs[id] = next

	return clone(next), nil
}

// Delete removes a job by id
func (r *JobRepository) Delete(_ context.Context, id domain.JobID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}

	delete(r.unique, identityOf(j))
	delete(r.jobs, id)
	return nil
}

// Find filters, sorts and slices the stored jobs
func (r *JobRepository) Find(_ context.Context, q job.Query) ([]domain.Job, int, error) {
	r.mu.RLock()
	matched := r.match(q.Predicate)
	r.mu.RUnlock()

	sortJobs(matched, q.Sort)

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	page := make([]domain.Job, 0, end-start)
	for _, j := range matched[start:end] {
		page = append(page, clone(j))
	}

	return page, total, nil
}

// Count returns the number of jobs matching p
func (r *JobRepository) Count(_ context.Context, p filter.Predicate) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.match(p)), nil
}

// CountBy groups jobs matching p by the value of dim
func (r *JobRepository) CountBy(_ context.Context, p filter.Predicate, dim filter.Dimension) ([]domain.FacetCount, error) {
	r.mu.RLock()
	matched := r.match(p)
	r.mu.RUnlock()

	counts := make(map[string]int)
	for _, j := range matched {
		counts[filter.Value(j, dim)]++
	}

	out := make([]domain.FacetCount, 0, len(counts))
	for value, n := range counts {
		out = append(out, domain.FacetCount{Value: value, Count: n})
	}
	return out, nil
}

// Len returns the number of stored jobs
func (r *JobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.jobs)
}

// match must be called with the read lock held
func (r *JobRepository) match(p filter.Predicate) []domain.Job {
	out := make([]domain.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if p.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

func sortJobs(jobs []domain.Job, s domain.SortSpec) {
	sort.Slice(jobs, func(i, j int) bool {
		c := compare(jobs[i], jobs[j], s.Field)
		if s.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return strings.Compare(jobs[i].ID.String(), jobs[j].ID.String()) < 0
	})
}

func compare(a, b domain.Job, field domain.SortField) int {
	switch field {
	case domain.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case domain.SortByCompany:
		return strings.Compare(a.Company, b.Company)
	default:
		return a.PostingDate.Compare(b.PostingDate)
	}
}

func clone(j domain.Job) domain.Job {
	if j.Tags != nil {
		j.Tags = append([]string(nil), j.Tags...)
	}
	return j
}
