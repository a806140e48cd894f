package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
	pkgpostgres "github.com/honeycarbs/jobboard/pkg/postgres"
)

func TestJobRepositoryIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL must be set to run this test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pkgpostgres.NewClient(ctx, pkgpostgres.Config{URL: url})
	require.NoError(t, err)
	defer client.Close(ctx)

	require.NoError(t, RunMigrations(ctx, client.Pool(), logging.NewNop()))
	repo := NewJobRepository(client.Pool())

	suffix := uuid.NewString()[:8]
	now := time.Now().UTC().Truncate(time.Microsecond)

	created, err := repo.Insert(ctx, domain.Job{
		Title:       "Integration Engineer " + suffix,
		Company:     "Acme " + suffix,
		Location:    "Berlin",
		PostingDate: now,
		JobType:     domain.JobTypeFullTime,
		Tags:        []string{"Go", "100%_literal"},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	defer func() { _ = repo.Delete(context.Background(), created.ID) }()

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.Insert(ctx, domain.Job{
		Title:       created.Title,
		Company:     created.Company,
		Location:    created.Location,
		PostingDate: now,
		JobType:     domain.JobTypeContract,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	conflict, ok := domain.IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, created.ID, conflict.ExistingID)

	pred := filter.Predicate{Company: "acme " + suffix, Tags: []string{"%_lit"}}
	items, total, err := repo.Find(ctx, job.Query{Predicate: pred, Sort: domain.DefaultSort, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)

	groups, err := repo.CountBy(ctx, pred, filter.DimensionLocation)
	require.NoError(t, err)
	assert.Equal(t, []domain.FacetCount{{Value: "Berlin", Count: 1}}, groups)

	_, err = repo.Update(ctx, created.ID, func(j *domain.Job) error {
		return &domain.ValidationError{Messages: []string{"Title is required"}}
	})
	_, ok = domain.IsValidation(err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrNotFound)
}
