package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

// ListJobsParams defines the arguments for the list_jobs tool
type ListJobsParams struct {
	Filter  domain.FilterSpec `json:"filter,omitempty" jsonschema:"Filter criteria, every field optional"`
	Sort    string            `json:"sort,omitempty" jsonschema:"posting_date_desc (default), posting_date_asc, title_asc, title_desc, company_asc or company_desc"`
	Page    int               `json:"page,omitempty" jsonschema:"1-based page number"`
	PerPage int               `json:"per_page,omitempty" jsonschema:"Page size, default 50, max 100"`
}

// FacetsParams defines the arguments for the job_facets tool
type FacetsParams struct {
	Filter domain.FilterSpec `json:"filter,omitempty" jsonschema:"Current filter; each facet ignores its own dimension"`
}

// StatsParams is empty; job_stats takes no arguments
type StatsParams struct{}

// JobIDParams identifies a single job
type JobIDParams struct {
	ID string `json:"id" jsonschema:"Job identifier (UUID)"`
}

// CreateJobParams defines the arguments for the create_job tool
type CreateJobParams struct {
	Job domain.JobInput `json:"job" jsonschema:"Job to create"`
}

// UpdateJobParams defines the arguments for the update_job tool
type UpdateJobParams struct {
	ID      string          `json:"id" jsonschema:"Job identifier (UUID)"`
	Changes domain.JobPatch `json:"changes" jsonschema:"Fields to change; omitted fields are kept"`
}

// DeleteJobResult confirms a deletion
type DeleteJobResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type jobTools struct {
	service job.Service
	logger  *logging.Logger
}

// RegisterJobTools installs the listing, aggregation and CRUD tools
func RegisterJobTools(server *sdkmcp.Server, svc job.Service, logger *logging.Logger) error {
	if server == nil {
		return fmt.Errorf("tools: server is nil")
	}
	if svc == nil {
		return fmt.Errorf("tools: job service is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	h := jobTools{service: svc, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_jobs",
		Description: "List stored jobs matching a filter, sorted and paginated",
	}, h.listJobs)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_facets",
		Description: "Cascading filter options (job types, companies, locations) with counts for the current filter",
	}, h.facets)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_stats",
		Description: "Global dashboard statistics over all stored jobs",
	}, h.stats)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_job",
		Description: "Fetch a single job by id",
	}, h.getJob)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_job",
		Description: "Create a job; fails with existing_job_id when title, company and location already exist",
	}, h.createJob)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_job",
		Description: "Partially update a job",
	}, h.updateJob)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_job",
		Description: "Delete a job by id",
	}, h.deleteJob)

	return nil
}

func (t jobTools) listJobs(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListJobsParams) (*sdkmcp.CallToolResult, any, error) {
	sort := domain.ParseSort(params.Sort)
	page := domain.NewPageSpec(params.Page, params.PerPage)

	t.logger.Debug("list_jobs called", "filter", params.Filter, "sort", sort.String(), "page", page.Page, "per_page", page.PerPage)

	result, err := t.service.List(ctx, params.Filter, sort, page)
	if err != nil {
		t.logger.Error("list_jobs failed", "err", err)
		return nil, nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	msg := fmt.Sprintf("[list_jobs] %d job(s) on page %d of %d, %d total", len(result.Items), result.Page, result.Pages, result.Total)
	return textResult(msg), result, nil
}

func (t jobTools) facets(ctx context.Context, _ *sdkmcp.CallToolRequest, params FacetsParams) (*sdkmcp.CallToolResult, any, error) {
	opts, err := t.service.FacetOptions(ctx, params.Filter)
	if err != nil {
		t.logger.Error("job_facets failed", "err", err)
		return nil, nil, fmt.Errorf("failed to compute filter options: %w", err)
	}

	msg := fmt.Sprintf("[job_facets] %d job type(s), %d compan(ies), %d location(s)", len(opts.JobTypes), len(opts.Companies), len(opts.Locations))
	return textResult(msg), opts, nil
}

func (t jobTools) stats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ StatsParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.service.Stats(ctx)
	if err != nil {
		t.logger.Error("job_stats failed", "err", err)
		return nil, nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	msg := fmt.Sprintf("[job_stats] %d job(s) across %d compan(ies) and %d location(s)", stats.TotalJobs, stats.TotalCompanies, stats.TotalLocations)
	return textResult(msg), stats, nil
}

func (t jobTools) getJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobIDParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := uuid.Parse(params.ID)
	if err != nil {
		return invalidArgument("id %q is not a valid UUID", params.ID)
	}

	j, err := t.service.Get(ctx, id)
	if err != nil {
		if res, payload, ok := domainErrorResult(err); ok {
			return res, payload, nil
		}
		return nil, nil, fmt.Errorf("failed to get job: %w", err)
	}

	return textResult(fmt.Sprintf("[get_job] %s at %s (%s)", j.Title, j.Company, j.Location)), j, nil
}

func (t jobTools) createJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params CreateJobParams) (*sdkmcp.CallToolResult, any, error) {
	j, err := t.service.Create(ctx, params.Job)
	if err != nil {
		if res, payload, ok := domainErrorResult(err); ok {
			t.logger.Info("create_job rejected", "kind", payload.Kind, "title", params.Job.Title)
			return res, payload, nil
		}
		t.logger.Error("create_job failed", "err", err)
		return nil, nil, fmt.Errorf("failed to create job: %w", err)
	}

	t.logger.Info("create_job completed", "job_id", j.ID)
	return textResult(fmt.Sprintf("[create_job] created %s", j.ID)), j, nil
}

func (t jobTools) updateJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdateJobParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := uuid.Parse(params.ID)
	if err != nil {
		return invalidArgument("id %q is not a valid UUID", params.ID)
	}

	j, err := t.service.Update(ctx, id, params.Changes)
	if err != nil {
		if res, payload, ok := domainErrorResult(err); ok {
			t.logger.Info("update_job rejected", "kind", payload.Kind, "job_id", id)
			return res, payload, nil
		}
		t.logger.Error("update_job failed", "err", err, "job_id", id)
		return nil, nil, fmt.Errorf("failed to update job: %w", err)
	}

	t.logger.Info("update_job completed", "job_id", j.ID)
	return textResult(fmt.Sprintf("[update_job] updated %s", j.ID)), j, nil
}

func (t jobTools) deleteJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobIDParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := uuid.Parse(params.ID)
	if err != nil {
		return invalidArgument("id %q is not a valid UUID", params.ID)
	}

	if err := t.service.Delete(ctx, id); err != nil {
		if res, payload, ok := domainErrorResult(err); ok {
			return res, payload, nil
		}
		t.logger.Error("delete_job failed", "err", err, "job_id", id)
		return nil, nil, fmt.Errorf("failed to delete job: %w", err)
	}

	t.logger.Info("delete_job completed", "job_id", id)
	result := DeleteJobResult{ID: id.String(), Message: "Job deleted successfully"}
	return textResult(fmt.Sprintf("[delete_job] deleted %s", id)), result, nil
}
