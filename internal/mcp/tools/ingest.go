package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

// Ingestor runs an ingestion pass over the configured job boards
type Ingestor interface {
	Run(ctx context.Context, q ingest.Query) (ingest.Report, error)
	Providers() []string
}

type ingestTool struct {
	ingestor Ingestor
	logger   *logging.Logger
}

// RegisterIngestTools installs the job_ingest tool. A nil ingestor registers nothing.
func RegisterIngestTools(server *sdkmcp.Server, ingestor Ingestor, logger *logging.Logger) error {
	if server == nil {
		return fmt.Errorf("tools: server is nil")
	}
	if ingestor == nil {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	h := ingestTool{ingestor: ingestor, logger: logger}
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_ingest",
		Description: "Search external job boards and store new postings; existing postings are counted as duplicates",
	}, h.handle)

	return nil
}

func (t ingestTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params ingest.Query) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Keywords) == "" {
		return invalidArgument("keywords are required")
	}

	providers := t.ingestor.Providers()
	if len(providers) == 0 {
		res := textResult("[job_ingest] no job board providers configured (set ADZUNA_APP_ID and ADZUNA_APP_KEY)")
		res.IsError = true
		return res, nil, nil
	}

	t.logger.Info("job_ingest request", "keywords", params.Keywords, "location", params.Location, "providers", providers)

	report, err := t.ingestor.Run(ctx, params)
	if err != nil {
		t.logger.Error("job_ingest failed", "err", err)
		return nil, nil, fmt.Errorf("failed to ingest jobs: %w", err)
	}

	msg := fmt.Sprintf("[job_ingest] fetched=%d created=%d duplicates=%d invalid=%d failed=%d",
		report.Fetched, report.Created, report.Duplicates, report.Invalid, report.Failed)
	if len(report.Errors) > 0 {
		msg += "; provider errors: " + strings.Join(report.Errors, "; ")
	}
	return textResult(msg), report, nil
}
