package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobboard/internal/mcp/tools"
	"github.com/honeycarbs/jobboard/pkg/sheets"
)

// valuesClient is the part of pkg/sheets.Client the adapter needs
type valuesClient interface {
	Write(ctx context.Context, spreadsheetID string, ranges ...sheets.Range) error
	Append(ctx context.Context, spreadsheetID string, r sheets.Range) error
	Clear(ctx context.Context, spreadsheetID, a1 string) error
}

type sheetsClientAdapter struct {
	client valuesClient
}

var _ tools.SheetsClient = (*sheetsClientAdapter)(nil)

// Write clears the tab body when asked, then writes the header and rows. An
// upsert lands in one batch; appended rows follow the header write.
func (a *sheetsClientAdapter) Write(ctx context.Context, w tools.SheetsWrite) error {
	if a.client == nil {
		return fmt.Errorf("sheets: client not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")
	}

	id := w.Sheet.SpreadsheetID

	if w.ClearTab {
		if err := a.client.Clear(ctx, id, buildClearRange(w.Sheet.Tab)); err != nil {
			return fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	var header []sheets.Range
	if w.Header {
		header = append(header, headerRange(w.Sheet.Tab))
	}

	rows := sheets.Range{A1: buildRange(w), Values: convertRowsToValues(w.Rows)}

	if w.Upsert {
		if err := a.client.Write(ctx, id, append(header, rows)...); err != nil {
			return fmt.Errorf("sheets: failed to upsert rows: %w", err)
		}
		return nil
	}

	if len(header) > 0 {
		if err := a.client.Write(ctx, id, header...); err != nil {
			return fmt.Errorf("sheets: failed to write header: %w", err)
		}
	}

	if len(rows.Values) == 0 {
		return nil
	}

	if err := a.client.Append(ctx, id, rows); err != nil {
		return fmt.Errorf("sheets: failed to append rows: %w", err)
	}

	return nil
}

func headerRange(tab string) sheets.Range {
	header := make([]any, len(tools.SheetHeader))
	for i, h := range tools.SheetHeader {
		header[i] = h
	}
	return sheets.Range{A1: tabName(tab) + "!A1", Values: [][]any{header}}
}

func tabName(tab string) string {
	if tab == "" {
		return "Sheet1"
	}
	return tab
}

func buildRange(w tools.SheetsWrite) string {
	if w.Sheet.Range != "" {
		return w.Sheet.Range
	}

	if w.Upsert {
		return fmt.Sprintf("%s!A2", tabName(w.Sheet.Tab))
	}
	return fmt.Sprintf("%s!A1", tabName(w.Sheet.Tab))
}

func buildClearRange(tab string) string {
	return fmt.Sprintf("%s!A2:Z", tabName(tab))
}

func convertRowsToValues(rows []tools.SheetRow) [][]any {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = []any{
			row.ID,
			row.Title,
			row.Company,
			row.Location,
			row.JobType,
			row.PostingDate,
			row.Tags,
			row.URL,
		}
	}
	return values
}
