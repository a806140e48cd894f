package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/filter"
	"github.com/honeycarbs/jobboard/internal/domain/job"

	pkgneo4j "github.com/honeycarbs/jobboard/pkg/neo4j"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// JobRepository implements job.Repository with Neo4j. Each job is a :Job node;
// uniqueness of (title, company, location) is enforced by a schema constraint
// created in EnsureConstraints.
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{client: client}
}

// Insert creates the job node
func (r *JobRepository) Insert(ctx context.Context, j domain.Job) (domain.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	query := `CREATE (j:Job) SET j = $props RETURN j`

	res, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"props": jobProps(j)})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return parseJobNode(record, "j")
	})
	if err != nil {
		if isConstraintViolation(err) {
			return domain.Job{}, r.conflict(ctx, j, uuid.Nil)
		}
		return domain.Job{}, fmt.Errorf("neo4j: insert job: %w", err)
	}

	return res.(domain.Job), nil
}

// Get loads a job by id
func (r *JobRepository) Get(ctx context.Context, id domain.JobID) (domain.Job, error) {
	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return getTx(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Job{}, err
		}
		return domain.Job{}, fmt.Errorf("neo4j: get job: %w", err)
	}

	return res.(domain.Job), nil
}

// Update loads, mutates and rewrites the node in one write transaction
func (r *JobRepository) Update(ctx context.Context, id domain.JobID, mutate func(*domain.Job) error) (domain.Job, error) {
	var mutateErr error
	var candidate domain.Job

	res, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		current, err := getTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		candidate = current
		if mutateErr = mutate(&candidate); mutateErr != nil {
			return nil, mutateErr
		}
		candidate.ID = id

		result, err := tx.Run(ctx, `
			MATCH (j:Job {id: $id})
			SET j = $props
			RETURN j
		`, map[string]any{"id": id.String(), "props": jobProps(candidate)})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return parseJobNode(record, "j")
	})

	switch {
	case mutateErr != nil:
		return domain.Job{}, mutateErr
	case errors.Is(err, domain.ErrNotFound):
		return domain.Job{}, err
	case err != nil && isConstraintViolation(err):
		return domain.Job{}, r.conflict(ctx, candidate, id)
	case err != nil:
		return domain.Job{}, fmt.Errorf("neo4j: update job: %w", err)
	}

	return res.(domain.Job), nil
}

// Delete removes the job node
func (r *JobRepository) Delete(ctx context.Context, id domain.JobID) error {
	res, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `MATCH (j:Job {id: $id}) DETACH DELETE j`, map[string]any{"id": id.String()})
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: delete job: %w", err)
	}

	if res.(int) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type findResult struct {
	jobs  []domain.Job
	total int
}

// Find counts all matches and loads one sorted page in a single read transaction
func (r *JobRepository) Find(ctx context.Context, q job.Query) ([]domain.Job, int, error) {
	where, params := whereClause(q.Predicate)
	params["offset"] = q.Offset
	params["limit"] = q.Limit

	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		total, err := countTx(ctx, tx, where, params)
		if err != nil {
			return nil, err
		}
		if total == 0 || q.Offset >= total {
			return findResult{jobs: []domain.Job{}, total: total}, nil
		}

		result, err := tx.Run(ctx, findQuery(where, q.Sort), params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		jobs := make([]domain.Job, 0, len(records))
		for _, record := range records {
			j, err := parseJobNode(record, "j")
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, j)
		}
		return findResult{jobs: jobs, total: total}, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("neo4j: find jobs: %w", err)
	}

	out := res.(findResult)
	return out.jobs, out.total, nil
}

// Count returns the number of matching jobs
func (r *JobRepository) Count(ctx context.Context, p filter.Predicate) (int, error) {
	where, params := whereClause(p)

	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return countTx(ctx, tx, where, params)
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j: count jobs: %w", err)
	}

	return res.(int), nil
}

// CountBy groups matching jobs by the dimension property
func (r *JobRepository) CountBy(ctx context.Context, p filter.Predicate, dim filter.Dimension) ([]domain.FacetCount, error) {
	where, params := whereClause(p)
	query, err := countByQuery(where, dim)
	if err != nil {
		return nil, err
	}

	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		groups := make([]domain.FacetCount, 0, len(records))
		for _, record := range records {
			groups = append(groups, domain.FacetCount{
				Value: getRecordString(record, "value"),
				Count: getRecordInt(record, "count"),
			})
		}
		return groups, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: count jobs by %s: %w", dim, err)
	}

	return res.([]domain.FacetCount), nil
}

// conflict resolves the id of the job already holding j's identity
func (r *JobRepository) conflict(ctx context.Context, j domain.Job, self domain.JobID) error {
	res, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (j:Job {title: $title, company: $company, location: $location})
			WHERE j.id <> $self
			RETURN j.id AS id
			LIMIT 1
		`, map[string]any{
			"title":    j.Title,
			"company":  j.Company,
			"location": j.Location,
			"self":     self.String(),
		})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getRecordString(record, "id"), nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: resolve duplicate job: %w", err)
	}

	existing, err := uuid.Parse(res.(string))
	if err != nil {
		return fmt.Errorf("neo4j: parse duplicate job id: %w", err)
	}
	return &domain.ConflictError{ExistingID: existing}
}

func getTx(ctx context.Context, tx neo4j.ManagedTransaction, id domain.JobID) (domain.Job, error) {
	result, err := tx.Run(ctx, `MATCH (j:Job {id: $id}) RETURN j`, map[string]any{"id": id.String()})
	if err != nil {
		return domain.Job{}, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return domain.Job{}, err
	}
	if len(records) == 0 {
		return domain.Job{}, domain.ErrNotFound
	}
	return parseJobNode(records[0], "j")
}

func countTx(ctx context.Context, tx neo4j.ManagedTransaction, where string, params map[string]any) (int, error) {
	result, err := tx.Run(ctx, countQuery(where), params)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	return getRecordInt(record, "total"), nil
}

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolation
}
