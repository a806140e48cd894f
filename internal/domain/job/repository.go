package job

import (
	"context"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

// Query selects a sorted slice of the jobs matching a predicate
type Query struct {
	Predicate filter.Predicate
	Sort      domain.SortSpec
	Offset    int
	Limit     int
}

// Repository persists and loads jobs from storage.
//
// Implementations enforce uniqueness of (title, company, location) themselves
// and report a violation as *domain.ConflictError. Missing ids are reported as
// domain.ErrNotFound. Equal sort keys are ordered by id ascending.
type Repository interface {
	// Insert stores a new job, assigning its id when unset
	Insert(ctx context.Context, job domain.Job) (domain.Job, error)

	Get(ctx context.Context, id domain.JobID) (domain.Job, error)

	// Update loads the job, applies mutate and persists the result in one
	// transaction. Nothing is written when mutate returns an error.
	Update(ctx context.Context, id domain.JobID, mutate func(*domain.Job) error) (domain.Job, error)

	Delete(ctx context.Context, id domain.JobID) error

	// Find returns one page of matching jobs and the total match count
	Find(ctx context.Context, q Query) ([]domain.Job, int, error)

	Count(ctx context.Context, p filter.Predicate) (int, error)

	// CountBy groups matching jobs by the dimension value
	CountBy(ctx context.Context, p filter.Predicate, dim filter.Dimension) ([]domain.FacetCount, error)
}

// Cache stores derived read results. Invalidate drops every entry.
//
// Get returns the slot it looked in, hit or miss. Set writes to that slot, so
// a result computed before an Invalidate is never served after it.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (CacheSlot, bool)
	Set(ctx context.Context, slot CacheSlot, value any) error
	Invalidate(ctx context.Context) error
}

// CacheSlot names a key within one cache generation. A negative generation
// means the generation could not be read and Set stores nothing.
type CacheSlot struct {
	Key        string
	Generation int64
}
