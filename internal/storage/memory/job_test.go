package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
	"github.com/honeycarbs/jobboard/internal/domain/job"
)

func seed(t *testing.T, r *JobRepository) []domain.Job {
	t.Helper()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixtures := []domain.Job{
		{Title: "Backend Engineer", Company: "Acme", Location: "Berlin", JobType: domain.JobTypeFullTime, Tags: []string{"Go", "Postgres"}, PostingDate: base},
		{Title: "Data Analyst", Company: "Globex", Location: "London", JobType: domain.JobTypeContract, Tags: []string{"SQL"}, PostingDate: base.Add(24 * time.Hour)},
		{Title: "Android Developer", Company: "Acme", Location: "London", JobType: domain.JobTypeFullTime, Tags: []string{"Kotlin"}, PostingDate: base.Add(48 * time.Hour)},
	}

	out := make([]domain.Job, 0, len(fixtures))
	for _, f := range fixtures {
		j, err := r.Insert(context.Background(), f)
		require.NoError(t, err)
		out = append(out, j)
	}
	return out
}

func TestInsert_AssignsIDAndRejectsDuplicates(t *testing.T) {
	r := NewJobRepository()
	jobs := seed(t, r)

	for _, j := range jobs {
		assert.NotEqual(t, uuid.Nil, j.ID)
	}

	dup := domain.Job{Title: "Backend Engineer", Company: "Acme", Location: "Berlin", JobType: domain.JobTypePartTime}
	_, err := r.Insert(context.Background(), dup)

	conflict, ok := domain.IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, jobs[0].ID, conflict.ExistingID)
	assert.Equal(t, 3, r.Len())
}

func TestInsert_StoresCopy(t *testing.T) {
	r := NewJobRepository()

	tags := []string{"go"}
	j, err := r.Insert(context.Background(), domain.Job{Title: "A", Company: "B", Location: "C", Tags: tags})
	require.NoError(t, err)

	tags[0] = "mutated"
	j.Tags[0] = "mutated"

	got, err := r.Get(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Tags)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies mutation", func(t *testing.T) {
		r := NewJobRepository()
		jobs := seed(t, r)

		got, err := r.Update(ctx, jobs[0].ID, func(j *domain.Job) error {
			j.Title = "Senior Backend Engineer"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Senior Backend Engineer", got.Title)

		// the old identity is free again
		_, err = r.Insert(ctx, domain.Job{Title: "Backend Engineer", Company: "Acme", Location: "Berlin"})
		assert.NoError(t, err)
	})

	t.Run("mutation error leaves job untouched", func(t *testing.T) {
		r := NewJobRepository()
		jobs := seed(t, r)
		boom := errors.New("boom")

		_, err := r.Update(ctx, jobs[0].ID, func(j *domain.Job) error {
			j.Title = "changed"
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := r.Get(ctx, jobs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", got.Title)
	})

	t.Run("collision with another job", func(t *testing.T) {
		r := NewJobRepository()
		jobs := seed(t, r)

		_, err := r.Update(ctx, jobs[2].ID, func(j *domain.Job) error {
			j.Title = "Backend Engineer"
			j.Location = "Berlin"
			return nil
		})
		conflict, ok := domain.IsConflict(err)
		require.True(t, ok)
		assert.Equal(t, jobs[0].ID, conflict.ExistingID)
	})

	t.Run("missing id", func(t *testing.T) {
		r := NewJobRepository()
		_, err := r.Update(ctx, uuid.New(), func(*domain.Job) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := NewJobRepository()
	jobs := seed(t, r)

	require.NoError(t, r.Delete(ctx, jobs[1].ID))
	assert.ErrorIs(t, r.Delete(ctx, jobs[1].ID), domain.ErrNotFound)

	_, err := r.Get(ctx, jobs[1].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, r.Len())
}

func TestFind_SortsAndPages(t *testing.T) {
	ctx := context.Background()
	r := NewJobRepository()
	seed(t, r)

	tests := []struct {
		name   string
		sort   domain.SortSpec
		titles []string
	}{
		{"newest first", domain.DefaultSort, []string{"Android Developer", "Data Analyst", "Backend Engineer"}},
		{"oldest first", domain.SortSpec{Field: domain.SortByPostingDate}, []string{"Backend Engineer", "Data Analyst", "Android Developer"}},
		{"title asc", domain.SortSpec{Field: domain.SortByTitle}, []string{"Android Developer", "Backend Engineer", "Data Analyst"}},
		{"title desc", domain.SortSpec{Field: domain.SortByTitle, Desc: true}, []string{"Data Analyst", "Backend Engineer", "Android Developer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := r.Find(ctx, job.Query{Sort: tt.sort, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, 3, total)

			titles := make([]string, 0, len(items))
			for _, j := range items {
				titles = append(titles, j.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}

	t.Run("offset past the end", func(t *testing.T) {
		items, total, err := r.Find(ctx, job.Query{Sort: domain.DefaultSort, Offset: 10, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, items)
	})

	t.Run("equal keys ordered by id", func(t *testing.T) {
		items, _, err := r.Find(ctx, job.Query{Sort: domain.SortSpec{Field: domain.SortByCompany}, Limit: 10})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Acme", items[0].Company)
		assert.Equal(t, "Acme", items[1].Company)
		assert.Less(t, items[0].ID.String(), items[1].ID.String())
	})
}

func TestFind_TitleSortIsCodePointOrder(t *testing.T) {
	ctx := context.Background()
	r := NewJobRepository()

	for _, title := range []string{"analyst", "Zebra Keeper", "Émigré Liaison", "Backend Engineer"} {
		_, err := r.Insert(ctx, domain.Job{Title: title, Company: "Acme", Location: "Berlin"})
		require.NoError(t, err)
	}

	items, _, err := r.Find(ctx, job.Query{Sort: domain.SortSpec{Field: domain.SortByTitle}, Limit: 10})
	require.NoError(t, err)

	titles := make([]string, 0, len(items))
	for _, j := range items {
		titles = append(titles, j.Title)
	}
	assert.Equal(t, []string{"Backend Engineer", "Zebra Keeper", "analyst", "Émigré Liaison"}, titles)
}

func TestInsert_ConcurrentDuplicates(t *testing.T) {
	const writers = 32

	r := NewJobRepository()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		ids     = make([]domain.JobID, writers)
		errs    = make([]error, writers)
	)

	start := make(chan struct{})
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			j, err := r.Insert(context.Background(), domain.Job{Title: "Engineer", Company: "Acme", Location: "Berlin"})
			if err == nil {
				created.Add(1)
				ids[i] = j.ID
			}
			errs[i] = err
		}(i)
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, created.Load())
	assert.Equal(t, 1, r.Len())

	var winner domain.JobID
	for _, id := range ids {
		if id != uuid.Nil {
			winner = id
		}
	}

	for _, err := range errs {
		if err == nil {
			continue
		}
		conflict, ok := domain.IsConflict(err)
		require.True(t, ok, "expected conflict, got %v", err)
		assert.Equal(t, winner, conflict.ExistingID)
	}
}

func TestCountBy(t *testing.T) {
	ctx := context.Background()
	r := NewJobRepository()
	seed(t, r)

	groups, err := r.CountBy(ctx, filter.Predicate{Location: "london"}, filter.DimensionCompany)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.FacetCount{
		{Value: "Acme", Count: 1},
		{Value: "Globex", Count: 1},
	}, groups)

	n, err := r.Count(ctx, filter.Predicate{Tags: []string{"sql", "go"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
