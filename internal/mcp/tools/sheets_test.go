package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

type recordingSheets struct {
	writes []SheetsWrite
	err    error
}

func (r *recordingSheets) Write(_ context.Context, w SheetsWrite) error {
	r.writes = append(r.writes, w)
	return r.err
}

func newExportTool(t *testing.T, jobs int, client SheetsClient) sheetsExportTool {
	t.Helper()

	h := newJobTools(t)
	for i := 0; i < jobs; i++ {
		create(t, h, domain.JobInput{
			Title:    fmt.Sprintf("Engineer %03d", i),
			Company:  "Acme",
			Location: "Berlin",
			Tags:     []string{"go", "k8s"},
		})
	}

	return sheetsExportTool{
		service: h.service,
		client:  client,
		logger:  logging.NewNop(),
		now:     func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func TestSheetsExport_PagesUpToLimit(t *testing.T) {
	client := &recordingSheets{}
	h := newExportTool(t, 230, client)

	res, out, err := h.handle(context.Background(), nil, SheetsExportParams{
		Sort:   "title_asc",
		Limit:  150,
		Upsert: true,
		Sheet:  SheetTarget{SpreadsheetID: "sheet-1", Tab: "Jobs"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	result := out.(SheetsExportResult)
	assert.Equal(t, 150, result.WrittenRows)
	assert.Equal(t, 230, result.MatchedJobs)
	assert.Equal(t, "upsert", result.Mode)

	require.Len(t, client.writes, 1)
	w := client.writes[0]
	assert.True(t, w.Upsert)
	require.Len(t, w.Rows, 150)
	assert.Equal(t, "Engineer 000", w.Rows[0].Title)
	assert.Equal(t, "Engineer 149", w.Rows[149].Title)
	assert.Equal(t, "go, k8s", w.Rows[0].Tags)
	assert.Equal(t, "2024-03-15T10:30:00Z", w.Rows[0].PostingDate)
}

func TestSheetsExport_DefaultLimitCoversSmallSets(t *testing.T) {
	client := &recordingSheets{}
	h := newExportTool(t, 3, client)

	_, out, err := h.handle(context.Background(), nil, SheetsExportParams{Sheet: SheetTarget{SpreadsheetID: "sheet-1"}})
	require.NoError(t, err)

	assert.Equal(t, 3, out.(SheetsExportResult).WrittenRows)
	assert.Equal(t, "append", out.(SheetsExportResult).Mode)
}

func TestSheetsExport_NoMatches(t *testing.T) {
	client := &recordingSheets{}
	h := newExportTool(t, 2, client)

	_, out, err := h.handle(context.Background(), nil, SheetsExportParams{
		Filter: domain.FilterSpec{Company: "Globex"},
		Sheet:  SheetTarget{SpreadsheetID: "sheet-1"},
	})
	require.NoError(t, err)

	assert.Zero(t, out.(SheetsExportResult).WrittenRows)
	assert.Empty(t, client.writes)
}

func TestSheetsExport_Errors(t *testing.T) {
	t.Run("missing spreadsheet", func(t *testing.T) {
		h := newExportTool(t, 1, &recordingSheets{})
		res, _, err := h.handle(context.Background(), nil, SheetsExportParams{})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("write failure", func(t *testing.T) {
		h := newExportTool(t, 1, &recordingSheets{err: errors.New("quota exceeded")})
		_, _, err := h.handle(context.Background(), nil, SheetsExportParams{Sheet: SheetTarget{SpreadsheetID: "sheet-1"}})
		assert.ErrorContains(t, err, "quota exceeded")
	})
}
