package job

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

const topN = 10

// Stats aggregates global counts for the dashboard. No filter applies.
func (s *service) Stats(ctx context.Context) (domain.Stats, error) {
	key := cacheKey("stats")

	var out domain.Stats
	slot, hit := s.cache.Get(ctx, key, &out)
	if hit {
		return out, nil
	}

	total, err := s.repo.Count(ctx, filter.Predicate{})
	if err != nil {
		s.logger.Error("failed to count jobs", "err", err)
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}

	counts, err := s.countDimensions(ctx, func(filter.Dimension) filter.Predicate {
		return filter.Predicate{}
	})
	if err != nil {
		s.logger.Error("failed to group jobs", "err", err)
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}

	companies := counts[filter.DimensionCompany]
	locations := counts[filter.DimensionLocation]

	out = domain.Stats{
		TotalJobs:              total,
		TotalCompanies:         len(companies),
		TotalLocations:         len(locations),
		JobTypes:               counts[filter.DimensionJobType],
		AllCompaniesWithCounts: companies,
		AllLocationsWithCounts: locations,
		TopCompanies:           head(companies, topN),
		TopLocations:           head(locations, topN),
		AllCompanies:           values(companies),
		AllLocations:           values(locations),
	}

	if err := s.cache.Set(ctx, slot, out); err != nil {
		s.logger.Warn("failed to cache stats", "err", err)
	}

	return out, nil
}

func head(counts []domain.FacetCount, n int) []domain.FacetCount {
	if len(counts) > n {
		counts = counts[:n]
	}
	out := make([]domain.FacetCount, len(counts))
	copy(out, counts)
	return out
}

func values(counts []domain.FacetCount) []string {
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Value)
	}
	return out
}
