package job

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
)

// List returns one page of jobs matching spec in the requested order
func (s *service) List(
	ctx context.Context,
	spec domain.FilterSpec,
	sort domain.SortSpec,
	page domain.PageSpec,
) (domain.Page, error) {
	page = domain.NewPageSpec(page.Page, page.PerPage)
	pred := filter.Build(spec, s.clock())

	items, total, err := s.repo.Find(ctx, Query{
		Predicate: pred,
		Sort:      sort,
		Offset:    page.Offset(),
		Limit:     page.PerPage,
	})
	if err != nil {
		s.logger.Error("failed to list jobs", "err", err, "sort", sort.String(), "page", page.Page)
		return domain.Page{}, fmt.Errorf("list jobs: %w", err)
	}

	return newPage(items, total, page), nil
}

func newPage(items []domain.Job, total int, page domain.PageSpec) domain.Page {
	if items == nil {
		items = []domain.Job{}
	}

	pages := 0
	if total > 0 {
		pages = (total + page.PerPage - 1) / page.PerPage
	}

	return domain.Page{
		Items:   items,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
		Pages:   pages,
		HasNext: page.Page < pages,
		HasPrev: page.Page > 1,
	}
}
