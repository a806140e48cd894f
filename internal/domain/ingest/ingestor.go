// Package ingest pulls postings from external job boards into the catalogue.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

// Query describes what to fetch from each provider
type Query struct {
	Keywords string `json:"keywords" jsonschema:"Search keywords, e.g. golang developer"`
	Location string `json:"location,omitempty" jsonschema:"Location filter passed to the provider"`
	Pages    int    `json:"pages,omitempty" jsonschema:"Result pages per provider, defaults to 1"`
}

// Provider fetches postings already normalized into job input
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]domain.JobInput, error)
}

// Report summarizes one ingestion run
type Report struct {
	Fetched    int      `json:"fetched"`
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Invalid    int      `json:"invalid"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// Ingestor feeds provider results through job.Service
type Ingestor struct {
	jobs      job.Service
	providers []Provider
	logger    *logging.Logger
}

// NewIngestor creates an Ingestor. Providers may be empty.
func NewIngestor(jobs job.Service, logger *logging.Logger, providers ...Provider) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ingestor{
		jobs:      jobs,
		providers: providers,
		logger:    logger,
	}
}

// Providers returns the names of the configured providers
func (i *Ingestor) Providers() []string {
	names := make([]string, 0, len(i.providers))
	for _, p := range i.providers {
		names = append(names, p.Name())
	}
	return names
}

// Run fetches from every provider and creates each posting. A failing provider
// is recorded in the report and skipped; only cancellation aborts the run.
func (i *Ingestor) Run(ctx context.Context, q Query) (Report, error) {
	var report Report

	if q.Keywords == "" {
		return report, fmt.Errorf("ingest: keywords are required")
	}

	for _, p := range i.providers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		inputs, err := p.Search(ctx, q)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			i.logger.Warn("provider search failed", "provider", p.Name(), "err", err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}

		report.Fetched += len(inputs)
		for _, in := range inputs {
			i.create(ctx, p.Name(), in, &report)
		}
	}

	i.logger.Info("ingestion completed",
		"keywords", q.Keywords,
		"fetched", report.Fetched,
		"created", report.Created,
		"duplicates", report.Duplicates,
		"invalid", report.Invalid,
		"failed", report.Failed,
	)

	return report, nil
}

func (i *Ingestor) create(ctx context.Context, provider string, in domain.JobInput, report *Report) {
	_, err := i.jobs.Create(ctx, in)
	if err == nil {
		report.Created++
		return
	}

	if _, ok := domain.IsConflict(err); ok {
		report.Duplicates++
		return
	}
	if verr, ok := domain.IsValidation(err); ok {
		report.Invalid++
		i.logger.Debug("skipping invalid posting", "provider", provider, "title", in.Title, "err", verr)
		return
	}

	report.Failed++
	i.logger.Error("failed to store posting", "provider", provider, "title", in.Title, "err", err)
}
