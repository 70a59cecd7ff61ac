// Package catalog defines the input side of the pipeline: readers that turn
// a game catalog (file, workbook, spreadsheet) into core records.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"steamstats/internal/core"
)

// RowReader returns every catalog record in source order.
type RowReader interface {
	ReadRows(ctx context.Context) ([]core.Record, error)
}

// Describer is implemented by readers that can name their source for logs
// and reports.
type Describer interface {
	Describe() string
}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoHeader      = errors.New("no header row")
)

// Header maps column names to positions in a row.
type Header map[string]int

// NewHeader indexes cells and checks that every required column is present.
// Names are trimmed; when a name repeats, the last column with it wins.
func NewHeader(cells []string) (Header, error) {
	if len(cells) == 0 {
		return nil, ErrNoHeader
	}
	h := make(Header, len(cells))
	for i, c := range cells {
		h[strings.TrimSpace(c)] = i
	}
	var missing []string
	for _, col := range core.RequiredColumns {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

// Record builds a record from a data row. Cells beyond the end of a short
// row read as empty.
func (h Header) Record(cells []string) core.Record {
	rec := make(core.Record, len(h))
	for name, i := range h {
		if i < len(cells) {
			rec[name] = cells[i]
		} else {
			rec[name] = ""
		}
	}
	return rec
}

// IsEmptyLine reports whether a row has no cells at all. Rows whose cells
// are merely empty are data and must reach the aggregator.
func IsEmptyLine(cells []string) bool {
	return len(cells) == 0
}

// Records converts a matrix whose first row is the header. Rows without any
// cells are skipped.
func Records(rows [][]string) ([]core.Record, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	h, err := NewHeader(rows[0])
	if err != nil {
		return nil, err
	}
	out := make([]core.Record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if IsEmptyLine(cells) {
			continue
		}
		out = append(out, h.Record(cells))
	}
	return out, nil
}
