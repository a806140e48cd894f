package job

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

// Service lists, aggregates and manages job postings
type Service interface {
	List(ctx context.Context, spec domain.FilterSpec, sort domain.SortSpec, page domain.PageSpec) (domain.Page, error)
	FacetOptions(ctx context.Context, spec domain.FilterSpec) (domain.FacetOptions, error)
	Stats(ctx context.Context) (domain.Stats, error)

	Get(ctx context.Context, id domain.JobID) (domain.Job, error)
	Create(ctx context.Context, in domain.JobInput) (domain.Job, error)
	Update(ctx context.Context, id domain.JobID, patch domain.JobPatch) (domain.Job, error)
	Delete(ctx context.Context, id domain.JobID) error
}

// Option configures Service
type Option func(*config)

type config struct {
	repo   Repository
	cache  Cache
	logger *logging.Logger
	clock  func() time.Time
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithCache sets a read cache for facets and stats
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.cache == nil {
		cfg.cache = noopCache{}
	}

	return &service{
		repo:   cfg.repo,
		cache:  cfg.cache,
		logger: cfg.logger,
		clock:  cfg.clock,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(repo Repository, cache Cache, logger *logging.Logger) (Service, error) {
	return NewService(
		WithRepository(repo),
		WithCache(cache),
		WithLogger(logger),
	)
}

type service struct {
	repo   Repository
	cache  Cache
	logger *logging.Logger
	clock  func() time.Time
}

// now returns the clock in UTC at microsecond precision so that timestamps
// survive a round trip through every store unchanged
func (s *service) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate read cache", "err", err)
	}
}

// cacheKey derives a stable key from a name and any JSON-encodable parts
func cacheKey(name string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%x", name, sum[:8])
}

type noopCache struct{}

func (noopCache) Get(_ context.Context, key string, _ any) (CacheSlot, bool) {
	return CacheSlot{Key: key, Generation: -1}, false
}

func (noopCache) Set(context.Context, CacheSlot, any) error { return nil }

func (noopCache) Invalidate(context.Context) error { return nil }
