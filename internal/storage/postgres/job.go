package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
	"github.com/honeycarbs/jobboard/internal/domain/job"
)

var _ job.Repository = (*JobRepository)(nil)

const (
	uniqueViolation    = "23505"
	identityConstraint = "jobs_identity_key"
)

// JobRepository implements job.Repository on a jobs table
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a JobRepository over a pgx pool
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Insert adds a row, assigning an id when unset
func (r *JobRepository) Insert(ctx context.Context, j domain.Job) (domain.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+jobColumns,
		j.ID, j.Title, j.Company, j.Location, j.PostingDate, string(j.JobType),
		j.Tags, j.Description, j.URL, j.CreatedAt, j.UpdatedAt,
	)

	created, err := scanJob(row)
	if err != nil {
		if isIdentityViolation(err) {
			return domain.Job{}, r.conflict(ctx, j, uuid.Nil)
		}
		return domain.Job{}, fmt.Errorf("postgres: insert job: %w", err)
	}
	return created, nil
}

// Get loads a row by id
func (r *JobRepository) Get(ctx context.Context, id domain.JobID) (domain.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, fmt.Errorf("postgres: get job: %w", err)
	}
	return j, nil
}

// Update locks the row, applies mutate and writes it back in one transaction
func (r *JobRepository) Update(ctx context.Context, id domain.JobID, mutate func(*domain.Job) error) (domain.Job, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Job{}, fmt.Errorf("postgres: begin update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanJob(tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, fmt.Errorf("postgres: load job for update: %w", err)
	}

	next := current
	if err := mutate(&next); err != nil {
		return domain.Job{}, err
	}
	if next.Tags == nil {
		next.Tags = []string{}
	}

	updated, err := scanJob(tx.QueryRow(ctx, `
		UPDATE jobs SET
			title = $2, company = $3, location = $4, posting_date = $5, job_type = $6,
			tags = $7, description = $8, url = $9, updated_at = $10
		WHERE id = $1
		RETURNING `+jobColumns,
		id, next.Title, next.Company, next.Location, next.PostingDate, string(next.JobType),
		next.Tags, next.Description, next.URL, next.UpdatedAt,
	))
	if err != nil {
		if isIdentityViolation(err) {
			_ = tx.Rollback(ctx)
			return domain.Job{}, r.conflict(ctx, next, id)
		}
		return domain.Job{}, fmt.Errorf("postgres: update job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Job{}, fmt.Errorf("postgres: commit update: %w", err)
	}
	return updated, nil
}

// Delete removes a row by id
func (r *JobRepository) Delete(ctx context.Context, id domain.JobID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find counts all matches and loads one sorted page from a single snapshot
func (r *JobRepository) Find(ctx context.Context, q job.Query) ([]domain.Job, int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: begin find: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var a args
	where := whereClause(q.Predicate, &a)

	var total int
	if err := tx.QueryRow(ctx, countSQL(where), a...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count jobs: %w", err)
	}
	if total == 0 || q.Offset >= total {
		return []domain.Job{}, total, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = total
	}

	query := findSQL(where, q.Sort, &a, q.Offset, limit)
	rows, err := tx.Query(ctx, query, a...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: find jobs: %w", err)
	}
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Job, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: scan jobs: %w", err)
	}

	return jobs, total, nil
}

// Count returns the number of matching rows
func (r *JobRepository) Count(ctx context.Context, p filter.Predicate) (int, error) {
	var a args
	where := whereClause(p, &a)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL(where), a...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: count jobs: %w", err)
	}
	return total, nil
}

// CountBy groups matching rows by the dimension column
func (r *JobRepository) CountBy(ctx context.Context, p filter.Predicate, dim filter.Dimension) ([]domain.FacetCount, error) {
	var a args
	query, err := countBySQL(whereClause(p, &a), dim)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("postgres: count jobs by %s: %w", dim, err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FacetCount, error) {
		var fc domain.FacetCount
		err := row.Scan(&fc.Value, &fc.Count)
		return fc, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan groups by %s: %w", dim, err)
	}
	return groups, nil
}

// conflict resolves the id of the row already holding j's identity
func (r *JobRepository) conflict(ctx context.Context, j domain.Job, self domain.JobID) error {
	var existing uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM jobs
		WHERE title = $1 AND company = $2 AND location = $3 AND id <> $4
		LIMIT 1
	`, j.Title, j.Company, j.Location, self).Scan(&existing)
	if err != nil {
		return fmt.Errorf("postgres: resolve duplicate job: %w", err)
	}
	return &domain.ConflictError{ExistingID: existing}
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		j       domain.Job
		jobType string
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.PostingDate, &jobType,
		&j.Tags, &j.Description, &j.URL, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}

	j.JobType = domain.JobType(jobType)
	j.PostingDate = j.PostingDate.UTC()
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	if j.Tags == nil {
		j.Tags = []string{}
	}
	return j, nil
}

func isIdentityViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == identityConstraint
}
