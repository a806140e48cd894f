package adzuna

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	"github.com/honeycarbs/jobboard/pkg/adzuna"
)

const maxPages = 5

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// Provider implements ingest.Provider using Adzuna API
type Provider struct {
	client searchClient
}

var _ ingest.Provider = (*Provider)(nil)

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "adzuna"
}

// Search queries Adzuna page by page and returns normalized job input.
// It stops at the first empty page.
func (p *Provider) Search(ctx context.Context, q ingest.Query) ([]domain.JobInput, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("adzuna provider: client is nil")
	}

	pages := min(max(q.Pages, 1), maxPages)

	var out []domain.JobInput
	for page := 1; page <= pages; page++ {
		respJobs, err := p.client.SearchJobs(ctx, q.Keywords, adzuna.SearchParams{
			Location: q.Location,
			Page:     page,
		})
		if err != nil {
			return out, fmt.Errorf("page %d: %w", page, err)
		}

		for _, j := range respJobs {
			out = append(out, toInput(j))
		}
		if len(respJobs) == 0 {
			break
		}
	}

	return out, nil
}

func toInput(j adzuna.Job) domain.JobInput {
	in := domain.JobInput{
		Title:       strings.TrimSpace(j.Title),
		Company:     strings.TrimSpace(j.CompanyName),
		Location:    strings.TrimSpace(j.Location),
		JobType:     string(jobType(j)),
		Description: j.Description,
		URL:         j.URL,
	}

	if !j.PostedAt.IsZero() {
		in.PostingDate = j.PostedAt.UTC().Format(time.RFC3339)
	}

	if j.Category != "" {
		in.Tags = append(in.Tags, strings.TrimSuffix(j.Category, " Jobs"))
	}
	if j.Remote {
		in.Tags = append(in.Tags, "Remote")
	}

	return in
}

// jobType maps Adzuna contract fields onto the catalogue's job types
func jobType(j adzuna.Job) domain.JobType {
	words := titleWords(j.Title)

	switch {
	case words["intern"] || words["internship"]:
		return domain.JobTypeInternship
	case strings.EqualFold(j.ContractType, "contract"):
		return domain.JobTypeContract
	case words["temporary"] || words["temp"]:
		return domain.JobTypeTemporary
	case strings.EqualFold(j.ContractTime, "part_time"):
		return domain.JobTypePartTime
	default:
		return domain.JobTypeFullTime
	}
}

func titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		words[w] = true
	}
	return words
}
