package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobboard/internal/cache"
	"github.com/honeycarbs/jobboard/internal/config"
	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	adzunaProvider "github.com/honeycarbs/jobboard/internal/domain/ingest/providers/adzuna"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/internal/mcp/tools"
	"github.com/honeycarbs/jobboard/internal/storage/memory"
	neo4jstore "github.com/honeycarbs/jobboard/internal/storage/neo4j"
	pgstore "github.com/honeycarbs/jobboard/internal/storage/postgres"
	"github.com/honeycarbs/jobboard/pkg/adzuna"
	"github.com/honeycarbs/jobboard/pkg/logging"
	n4j "github.com/honeycarbs/jobboard/pkg/neo4j"
	"github.com/honeycarbs/jobboard/pkg/postgres"
	sheetsclient "github.com/honeycarbs/jobboard/pkg/sheets"
)

// provideRepository opens the store selected by STORE and prepares its schema
func provideRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreNeo4j:
		client, err := n4j.NewClient(ctx, n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("failed to close Neo4j client", "err", err)
			}
		}

		repo := neo4jstore.NewJobRepository(client)
		if err := repo.EnsureConstraints(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}

		logger.Info("Neo4j store initialized", "uri", cfg.Neo4j.URI, "database", client.Database())
		return repo, cleanup, nil

	case config.StorePostgres:
		client, err := postgres.NewClient(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { _ = client.Close(context.Background()) }

		if err := pgstore.RunMigrations(ctx, client.Pool(), logger); err != nil {
			cleanup()
			return nil, nil, err
		}

		logger.Info("Postgres store initialized")
		return pgstore.NewJobRepository(client.Pool()), cleanup, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewJobRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("mcp: unknown store %q", cfg.Store)
	}
}

// provideCache connects the optional Redis read cache. An unreachable Redis
// is logged and the service runs uncached.
func provideCache(cfg config.Config, logger *logging.Logger) (job.Cache, func()) {
	if cfg.Redis.URL == "" {
		return nil, func() {}
	}

	c, err := cache.New(cfg.Redis.URL, cfg.Redis.TTL)
	if err != nil {
		logger.Warn("read cache disabled", "err", err)
		return nil, func() {}
	}

	logger.Info("Redis read cache initialized", "ttl", cfg.Redis.TTL)
	return c, func() { _ = c.Close(context.Background()) }
}

// provideIngestor builds the ingestion pipeline. Without Adzuna credentials it
// has no providers and job_ingest reports that.
func provideIngestor(cfg config.Config, svc job.Service, logger *logging.Logger) (*ingest.Ingestor, error) {
	var providers []ingest.Provider

	if cfg.Adzuna.AppID != "" && cfg.Adzuna.AppKey != "" {
		client, err := adzuna.NewClient(adzuna.Config{
			AppID:   cfg.Adzuna.AppID,
			AppKey:  cfg.Adzuna.AppKey,
			Country: cfg.Adzuna.Country,
		})
		if err != nil {
			return nil, err
		}

		provider, err := adzunaProvider.NewProvider(client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
		logger.Info("Adzuna provider initialized", "country", cfg.Adzuna.Country)
	} else {
		logger.Info("Adzuna credentials not set, ingestion has no providers")
	}

	return ingest.NewIngestor(svc, logger, providers...), nil
}

// provideSheetsClient returns nil when no credentials are configured, which
// leaves sheets_export unregistered
func provideSheetsClient(ctx context.Context, cfg config.Config, logger *logging.Logger) (tools.SheetsClient, error) {
	if cfg.Sheets.CredentialsPath == "" {
		return nil, nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}

	logger.Info("Google Sheets client initialized")
	return &sheetsClientAdapter{client: client}, nil
}

func newResources(jobService job.Service, ingestor *ingest.Ingestor, sheets tools.SheetsClient) *Resources {
	return &Resources{
		JobService:   jobService,
		Ingestor:     ingestor,
		SheetsClient: sheets,
	}
}
