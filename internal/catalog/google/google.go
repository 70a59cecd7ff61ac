// Package google reads a game catalog from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"steamstats/internal/catalog"
	"steamstats/internal/core"
)

// DefaultRange covers the catalog columns of a typical export.
const DefaultRange = "A:Z"

type Config struct {
	SpreadsheetID string
	SheetName     string
	// Range in A1 notation without the sheet name. Empty means DefaultRange.
	Range string

	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	rng           string
}

var _ catalog.RowReader = (*Client)(nil)

// New creates a client authenticated with service account credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	creds, err := credentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg)
}

// NewWithService wraps an existing service.
func NewWithService(svc *gsheet.Service, cfg Config) (*Client, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	return &Client{
		svc:           svc,
		spreadsheetID: id,
		rng:           a1Range(cfg.SheetName, cfg.Range),
	}, nil
}

func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s/%s", c.spreadsheetID, c.rng)
}

func (c *Client) ReadRows(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.rng, err)
	}
	records, err := parseValues(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.rng, err)
	}
	slog.InfoContext(ctx, "Catalog read from Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"range", c.rng,
		"records", len(records))
	return records, nil
}

// credentials resolves service account JSON from the config, falling back to
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func a1Range(sheet, rng string) string {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		rng = DefaultRange
	}
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return rng
	}
	if strings.ContainsAny(sheet, " '!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + rng
}

func parseValues(values [][]interface{}) ([]core.Record, error) {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = toStrings(v)
	}
	return catalog.Records(rows)
}

// toStrings formats cells without trimming so the records carry raw text.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
