// Package xlsx reads a game catalog from an Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"steamstats/internal/catalog"
	"steamstats/internal/core"
)

type Reader struct {
	path  string
	sheet string
}

var _ catalog.RowReader = (*Reader)(nil)

// New returns a reader for path. An empty sheet selects the first sheet in
// the workbook.
func New(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

func (r *Reader) Describe() string {
	if r.sheet == "" {
		return "xlsx:" + r.path
	}
	return fmt.Sprintf("xlsx:%s!%s", r.path, r.sheet)
}

func (r *Reader) ReadRows(ctx context.Context) ([]core.Record, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := catalog.Records(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	slog.DebugContext(ctx, "Workbook sheet decoded",
		"path", r.path,
		"sheet", sheet,
		"records", len(records))
	return records, nil
}
