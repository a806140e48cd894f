package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/config"
	"github.com/honeycarbs/jobboard/internal/domain/ingest"
	"github.com/honeycarbs/jobboard/internal/domain/job"
	"github.com/honeycarbs/jobboard/internal/storage/memory"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

func newTestServer(t *testing.T, res *Resources) *httptest.Server {
	t.Helper()

	srv, err := NewServer(logging.NewNop(), config.Config{Host: "127.0.0.1", Port: "0"}, res)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func memoryResources(t *testing.T) *Resources {
	t.Helper()

	svc, err := job.NewService(job.WithRepository(memory.NewJobRepository()))
	require.NoError(t, err)
	return &Resources{
		JobService: svc,
		Ingestor:   ingest.NewIngestor(svc, nil),
	}
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t, memoryResources(t))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_ListsTools(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, memoryResources(t))

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp/stream"}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		"create_job", "delete_job", "get_job", "job_facets", "job_ingest", "job_stats", "list_jobs", "update_job",
	}, names)
}

func TestNewServer_RequiresJobService(t *testing.T) {
	_, err := NewServer(logging.NewNop(), config.Config{}, &Resources{})
	assert.Error(t, err)
}

func TestRegisterAll_WithSheets(t *testing.T) {
	res := memoryResources(t)
	res.Ingestor = nil
	res.SheetsClient = &sheetsClientAdapter{client: &fakeValues{}}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "jobboard-test", Version: "0.0.0"}, nil)
	require.NoError(t, NewToolRegistry(logging.NewNop()).RegisterAll(server, res))

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(context.Background(), serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	cs, err := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "c", Version: "0"}, nil).Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	list, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var hasSheets, hasIngest bool
	for _, tool := range list.Tools {
		hasSheets = hasSheets || tool.Name == "sheets_export"
		hasIngest = hasIngest || tool.Name == "job_ingest"
	}
	assert.True(t, hasSheets)
	assert.False(t, hasIngest)
}
