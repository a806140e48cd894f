// Package sheets writes blocks of cell values to Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// Range is a block of rows anchored at an A1 range such as "Jobs!A2"
type Range struct {
	A1     string
	Values [][]any
}

type Client struct {
	values *sheets.SpreadsheetsValuesService
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte

	// Endpoint and HTTPClient replace the Google endpoint and its
	// authenticated transport, e.g. for a local test server
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{values: service.Spreadsheets.Values}, nil
}

// Write overwrites every range in a single batch request. Empty ranges are
// skipped.
func (c *Client) Write(ctx context.Context, spreadsheetID string, ranges ...Range) error {
	data := make([]*sheets.ValueRange, 0, len(ranges))
	for _, r := range ranges {
		if len(r.Values) == 0 {
			continue
		}
		data = append(data, &sheets.ValueRange{Range: r.A1, Values: r.Values})
	}
	if len(data) == 0 {
		return nil
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}
	if _, err := c.values.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: batch update %d ranges: %w", len(data), err)
	}
	return nil
}

// Append inserts rows after the last row of the table found at r.A1
func (c *Client) Append(ctx context.Context, spreadsheetID string, r Range) error {
	if len(r.Values) == 0 {
		return nil
	}

	_, err := c.values.Append(spreadsheetID, r.A1, &sheets.ValueRange{Values: r.Values}).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", r.A1, err)
	}
	return nil
}

// Clear empties the cells in a1, keeping formatting
func (c *Client) Clear(ctx context.Context, spreadsheetID, a1 string) error {
	if _, err := c.values.Clear(spreadsheetID, a1, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: clear %s: %w", a1, err)
	}
	return nil
}
