package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT job_id IF NOT EXISTS
	 FOR (j:Job) REQUIRE j.id IS UNIQUE`,
	`CREATE CONSTRAINT job_identity IF NOT EXISTS
	 FOR (j:Job) REQUIRE (j.title, j.company, j.location) IS UNIQUE`,
	`CREATE INDEX job_posting_date IF NOT EXISTS
	 FOR (j:Job) ON (j.postingDate)`,
	`CREATE INDEX job_type IF NOT EXISTS
	 FOR (j:Job) ON (j.jobType)`,
}

// EnsureConstraints creates the uniqueness constraints and indexes the
// repository relies on. It is idempotent.
func (r *JobRepository) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		_, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("neo4j: ensure schema: %w", err)
		}
	}

	return nil
}
