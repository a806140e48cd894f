package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/internal/mcp/tools"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

// Resources are the long-lived dependencies shared by the MCP tools and the REST API
type Resources struct {
	JobService   job.Service
	Ingestor     *ingest.Ingestor
	SheetsClient tools.SheetsClient
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) error {
	if err := tools.RegisterJobTools(server, res.JobService, r.logger); err != nil {
		return err
	}

	// a nil *ingest.Ingestor must not become a non-nil interface
	var ingestor tools.Ingestor
	if res.Ingestor != nil {
		ingestor = res.Ingestor
	}
	if err := tools.RegisterIngestTools(server, ingestor, r.logger); err != nil {
		return err
	}

	if err := tools.RegisterExportTools(server, res.JobService, res.SheetsClient, r.logger); err != nil {
		return err
	}

	return nil
}
