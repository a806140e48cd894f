package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/jobboard/pkg/logging"
)

// Migration is one idempotent schema step
type Migration struct {
	Name string
	SQL  string
}

var migrations = []Migration{
	{
		Name: "create_jobs",
		SQL: `
			CREATE TABLE IF NOT EXISTS jobs (
				id           uuid PRIMARY KEY,
				title        varchar(200) NOT NULL,
				company      varchar(200) NOT NULL,
				location     varchar(200) NOT NULL,
				posting_date timestamptz NOT NULL,
				job_type     varchar(50) NOT NULL DEFAULT 'Full-time',
				tags         text[] NOT NULL DEFAULT '{}',
				description  text NOT NULL DEFAULT '',
				url          varchar(500) NOT NULL DEFAULT '',
				created_at   timestamptz NOT NULL,
				updated_at   timestamptz NOT NULL,
				CONSTRAINT jobs_identity_key UNIQUE (title, company, location)
			)
		`,
	},
	{
		Name: "index_jobs_posting_date",
		SQL:  `CREATE INDEX IF NOT EXISTS jobs_posting_date_idx ON jobs (posting_date DESC, id)`,
	},
	{
		Name: "index_jobs_job_type",
		SQL:  `CREATE INDEX IF NOT EXISTS jobs_job_type_idx ON jobs (job_type)`,
	},
}

// RunMigrations applies every schema step in order
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *logging.Logger) error {
	logger.Info("starting database migrations")

	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Error("migration failed", "name", m.Name, "err", err)
			return fmt.Errorf("postgres: migration %s: %w", m.Name, err)
		}
		logger.Debug("migration completed", "name", m.Name)
	}

	logger.Info("database migrations completed", "count", len(migrations))
	return nil
}
