package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

const (
	defaultExportLimit = 500
	maxExportLimit     = 5000
)

// SheetRow is one exported job
type SheetRow struct {
	ID          string
	Title       string
	Company     string
	Location    string
	JobType     string
	PostingDate string
	Tags        string
	URL         string
}

// SheetHeader names the columns of SheetRow in order
var SheetHeader = []string{"ID", "Title", "Company", "Location", "Job Type", "Posting Date", "Tags", "URL"}

// SheetTarget identifies the destination tab
type SheetTarget struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to Sheet1"`
	Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	Filter   domain.FilterSpec `json:"filter,omitempty" jsonschema:"Jobs to export, same fields as list_jobs"`
	Sort     string            `json:"sort,omitempty" jsonschema:"Row order, same values as list_jobs"`
	Limit    int               `json:"limit,omitempty" jsonschema:"Maximum rows, default 500, max 5000"`
	Upsert   bool              `json:"upsert,omitempty" jsonschema:"Overwrite rows from A2 (true) or append (false)"`
	ClearTab bool              `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab below the header before writing"`
	Header   bool              `json:"header,omitempty" jsonschema:"If true, writes the column header row to A1"`
	Sheet    SheetTarget       `json:"sheet" jsonschema:"Destination sheet information"`
}

// SheetsWrite is the request handed to a SheetsClient
type SheetsWrite struct {
	Sheet    SheetTarget
	Rows     []SheetRow
	Upsert   bool
	ClearTab bool
	Header   bool
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab,omitempty" jsonschema:"Target tab name"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many rows were written"`
	MatchedJobs   int       `json:"matched_jobs" jsonschema:"How many jobs matched the filter"`
	Mode          string    `json:"mode" jsonschema:"append or upsert"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
	Message       string    `json:"message,omitempty" jsonschema:"Optional status message"`
}

// SheetsClient writes job rows to a spreadsheet
type SheetsClient interface {
	Write(ctx context.Context, w SheetsWrite) error
}

type sheetsExportTool struct {
	service job.Service
	client  SheetsClient
	logger  *logging.Logger
	now     func() time.Time
}

// RegisterExportTools installs the sheets_export tool. A nil client registers nothing.
func RegisterExportTools(server *sdkmcp.Server, svc job.Service, client SheetsClient, logger *logging.Logger) error {
	if server == nil {
		return fmt.Errorf("tools: server is nil")
	}
	if client == nil {
		return nil
	}
	if svc == nil {
		return fmt.Errorf("tools: job service is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	h := sheetsExportTool{service: svc, client: client, logger: logger, now: time.Now}
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sheets_export",
		Description: "Export jobs matching a filter to a Google Sheets tab",
	}, h.handle)

	return nil
}

func (t sheetsExportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Sheet.SpreadsheetID) == "" {
		return invalidArgument("sheet.spreadsheet_id is required")
	}

	limit := params.Limit
	switch {
	case limit <= 0:
		limit = defaultExportLimit
	case limit > maxExportLimit:
		limit = maxExportLimit
	}

	jobs, total, err := t.collect(ctx, params.Filter, domain.ParseSort(params.Sort), limit)
	if err != nil {
		t.logger.Error("sheets_export: failed to list jobs", "err", err)
		return nil, nil, fmt.Errorf("failed to list jobs for export: %w", err)
	}

	result := SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
		MatchedJobs:   total,
		Mode:          "append",
	}
	if params.Upsert {
		result.Mode = "upsert"
	}

	if len(jobs) == 0 && !params.ClearTab {
		result.CompletedAt = t.now().UTC()
		result.Message = "no jobs matched the filter"
		return textResult("[sheets_export] " + result.Message), result, nil
	}

	rows := make([]SheetRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, toSheetRow(j))
	}

	t.logger.Info("sheets_export request",
		"spreadsheet_id", params.Sheet.SpreadsheetID,
		"tab", params.Sheet.Tab,
		"rows", len(rows),
		"mode", result.Mode,
	)

	err = t.client.Write(ctx, SheetsWrite{
		Sheet:    params.Sheet,
		Rows:     rows,
		Upsert:   params.Upsert,
		ClearTab: params.ClearTab,
		Header:   params.Header,
	})
	if err != nil {
		t.logger.Error("sheets_export: write failed", "err", err, "spreadsheet_id", params.Sheet.SpreadsheetID)
		return nil, nil, fmt.Errorf("failed to export rows: %w", err)
	}

	result.WrittenRows = len(rows)
	result.CompletedAt = t.now().UTC()
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)
	if total > len(rows) {
		result.Message += fmt.Sprintf(" of %d matching job(s)", total)
	}

	return textResult("[sheets_export] " + result.Message), result, nil
}

// collect pages through the listing until limit jobs are gathered
func (t sheetsExportTool) collect(ctx context.Context, spec domain.FilterSpec, sort domain.SortSpec, limit int) ([]domain.Job, int, error) {
	var (
		jobs  []domain.Job
		total int
	)

	for page := 1; len(jobs) < limit; page++ {
		p, err := t.service.List(ctx, spec, sort, domain.NewPageSpec(page, domain.MaxPerPage))
		if err != nil {
			return nil, 0, err
		}
		total = p.Total

		jobs = append(jobs, p.Items...)
		if !p.HasNext {
			break
		}
	}

	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, total, nil
}

func toSheetRow(j domain.Job) SheetRow {
	return SheetRow{
		ID:          j.ID.String(),
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		JobType:     string(j.JobType),
		PostingDate: j.PostingDate.UTC().Format(time.RFC3339),
		Tags:        strings.Join(j.Tags, ", "),
		URL:         j.URL,
	}
}
