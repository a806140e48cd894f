package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

// FacetOptions computes cascading facets: every dimension is counted over the
// jobs matching all active filters except that dimension's own.
func (s *service) FacetOptions(ctx context.Context, spec domain.FilterSpec) (domain.FacetOptions, error) {
	now := s.clock()
	key := cacheKey("facets", spec, now.UTC().Format("2006-01-02"))

	var out domain.FacetOptions
	slot, hit := s.cache.Get(ctx, key, &out)
	if hit {
		return out, nil
	}

	base := filter.Build(spec, now)
	counts, err := s.countDimensions(ctx, base.Without)
	if err != nil {
		s.logger.Error("failed to compute facet options", "err", err)
		return domain.FacetOptions{}, fmt.Errorf("facet options: %w", err)
	}

	out = domain.FacetOptions{
		JobTypes:  counts[filter.DimensionJobType],
		Companies: counts[filter.DimensionCompany],
		Locations: counts[filter.DimensionLocation],
	}

	if err := s.cache.Set(ctx, slot, out); err != nil {
		s.logger.Warn("failed to cache facet options", "err", err)
	}

	return out, nil
}

// countDimensions groups jobs by every facet dimension concurrently. predFor
// supplies the predicate used for each dimension.
func (s *service) countDimensions(
	ctx context.Context,
	predFor func(filter.Dimension) filter.Predicate,
) (map[filter.Dimension][]domain.FacetCount, error) {
	results := make([][]domain.FacetCount, len(filter.Dimensions))
	errs := make([]error, len(filter.Dimensions))

	var wg sync.WaitGroup
	for i, dim := range filter.Dimensions {
		wg.Add(1)
		go func(i int, dim filter.Dimension) {
			defer wg.Done()

			groups, err := s.repo.CountBy(ctx, predFor(dim), dim)
			if err != nil {
				errs[i] = fmt.Errorf("count by %s: %w", dim, err)
				return
			}
			results[i] = rankFacets(groups)
		}(i, dim)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := make(map[filter.Dimension][]domain.FacetCount, len(filter.Dimensions))
	for i, dim := range filter.Dimensions {
		out[dim] = results[i]
	}
	return out, nil
}

// rankFacets drops blank values and empty groups, then orders by count
// descending and value ascending
func rankFacets(groups []domain.FacetCount) []domain.FacetCount {
	out := make([]domain.FacetCount, 0, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g.Value) == "" || g.Count <= 0 {
			continue
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	return out
}
