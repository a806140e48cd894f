//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/jobboard/internal/config"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up. The
// returned cleanup closes every store and cache connection.
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Storage
		provideRepository,
		provideCache,

		// Services
		job.NewServiceWithDeps,
		provideIngestor,

		// Export
		provideSheetsClient,

		newResources,
	)

	return nil, nil, nil
}
