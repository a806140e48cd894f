package tools

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/internal/storage/memory"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

func newJobTools(t *testing.T) jobTools {
	t.Helper()

	svc, err := job.NewService(
		job.WithRepository(memory.NewJobRepository()),
		job.WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return jobTools{service: svc, logger: logging.NewNop()}
}

func create(t *testing.T, h jobTools, in domain.JobInput) domain.Job {
	t.Helper()

	res, out, err := h.createJob(context.Background(), nil, CreateJobParams{Job: in})
	require.NoError(t, err)
	require.False(t, res.IsError)
	return out.(domain.Job)
}

func TestCreateJob(t *testing.T) {
	h := newJobTools(t)
	j := create(t, h, domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin", Tags: []string{"go"}})

	assert.Equal(t, domain.JobTypeFullTime, j.JobType)
	assert.NotEqual(t, uuid.Nil, j.ID)
}

func TestCreateJob_Duplicate(t *testing.T) {
	h := newJobTools(t)
	first := create(t, h, domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin"})

	res, out, err := h.createJob(context.Background(), nil, CreateJobParams{Job: domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	payload := out.(ToolError)
	assert.Equal(t, "conflict", payload.Kind)
	assert.Equal(t, first.ID.String(), payload.ExistingJobID)
}

func TestCreateJob_Invalid(t *testing.T) {
	h := newJobTools(t)

	res, out, err := h.createJob(context.Background(), nil, CreateJobParams{Job: domain.JobInput{Company: "Acme", Location: "Berlin", JobType: "Freelance"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	payload := out.(ToolError)
	assert.Equal(t, "validation", payload.Kind)
	assert.Len(t, payload.Details, 2)
}

func TestGetUpdateDelete(t *testing.T) {
	h := newJobTools(t)
	ctx := context.Background()
	j := create(t, h, domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin"})

	desc := "Build services"
	res, out, err := h.updateJob(ctx, nil, UpdateJobParams{ID: j.ID.String(), Changes: domain.JobPatch{Description: &desc}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, desc, out.(domain.Job).Description)

	res, out, err = h.getJob(ctx, nil, JobIDParams{ID: j.ID.String()})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "Go Developer", out.(domain.Job).Title)

	res, _, err = h.deleteJob(ctx, nil, JobIDParams{ID: j.ID.String()})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, out, err = h.getJob(ctx, nil, JobIDParams{ID: j.ID.String()})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "not_found", out.(ToolError).Kind)
}

func TestInvalidID(t *testing.T) {
	h := newJobTools(t)

	for name, call := range map[string]func() (*sdkmcp.CallToolResult, any, error){
		"get":    func() (*sdkmcp.CallToolResult, any, error) { return h.getJob(context.Background(), nil, JobIDParams{ID: "42"}) },
		"delete": func() (*sdkmcp.CallToolResult, any, error) { return h.deleteJob(context.Background(), nil, JobIDParams{ID: "42"}) },
		"update": func() (*sdkmcp.CallToolResult, any, error) {
			return h.updateJob(context.Background(), nil, UpdateJobParams{ID: "42"})
		},
	} {
		t.Run(name, func(t *testing.T) {
			res, _, err := call()
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestListJobs_FilterAndPaging(t *testing.T) {
	h := newJobTools(t)
	create(t, h, domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin"})
	create(t, h, domain.JobInput{Title: "Data Analyst", Company: "Globex", Location: "London"})
	create(t, h, domain.JobInput{Title: "SRE", Company: "Acme", Location: "Remote", JobType: "Contract"})

	res, out, err := h.listJobs(context.Background(), nil, ListJobsParams{
		Filter:  domain.FilterSpec{Company: "acme"},
		Sort:    "title_asc",
		PerPage: 1,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	page := out.(domain.Page)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Go Developer", page.Items[0].Title)
}

func TestFacetsAndStats(t *testing.T) {
	h := newJobTools(t)
	create(t, h, domain.JobInput{Title: "Go Developer", Company: "Acme", Location: "Berlin"})
	create(t, h, domain.JobInput{Title: "SRE", Company: "Acme", Location: "Remote", JobType: "Contract"})

	_, out, err := h.facets(context.Background(), nil, FacetsParams{Filter: domain.FilterSpec{JobType: "Contract"}})
	require.NoError(t, err)
	opts := out.(domain.FacetOptions)
	assert.Equal(t, []domain.FacetCount{{Value: "Contract", Count: 1}, {Value: "Full-time", Count: 1}}, opts.JobTypes)
	assert.Equal(t, []domain.FacetCount{{Value: "Acme", Count: 1}}, opts.Companies)

	_, out, err = h.stats(context.Background(), nil, StatsParams{})
	require.NoError(t, err)
	stats := out.(domain.Stats)
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 1, stats.TotalCompanies)
}

func TestRegisterJobTools_OverTransport(t *testing.T) {
	ctx := context.Background()
	h := newJobTools(t)

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "jobboard-test", Version: "0.0.0"}, nil)
	require.NoError(t, RegisterJobTools(server, h.service, nil))

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "create_job",
		Arguments: map[string]any{
			"job": map[string]any{"title": "Go Developer", "company": "Acme", "location": "Berlin"},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "create_job",
		Arguments: map[string]any{
			"job": map[string]any{"title": "Go Developer", "company": "Acme", "location": "Berlin"},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "conflict", structured["kind"])
	assert.NotEmpty(t, structured["existing_job_id"])

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_jobs", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	structured, ok = res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, structured["total"])
}

func TestRegisterJobTools_RequiresService(t *testing.T) {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "jobboard-test", Version: "0.0.0"}, nil)
	assert.Error(t, RegisterJobTools(server, nil, nil))
}
