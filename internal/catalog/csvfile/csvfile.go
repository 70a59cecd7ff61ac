// Package csvfile reads a game catalog from a CSV export.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"steamstats/internal/catalog"
	"steamstats/internal/core"
)

type Reader struct {
	path string
}

var _ catalog.RowReader = (*Reader)(nil)

func New(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) Describe() string {
	return "csv:" + r.path
}

// ReadRows opens the file and decodes every record.
func (r *Reader) ReadRows(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	slog.DebugContext(ctx, "Catalog file decoded", "path", r.path, "records", len(records))
	return records, nil
}

// Decode reads UTF-8 CSV with a header row from src. A leading byte order
// mark is dropped so it does not end up in the first column name.
func Decode(ctx context.Context, src io.Reader) ([]core.Record, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(src, dec))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, catalog.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := catalog.NewHeader(head)
	if err != nil {
		return nil, err
	}

	var out []core.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(out)+1, err)
		}
		if catalog.IsEmptyLine(cells) {
			continue
		}
		out = append(out, h.Record(cells))
	}
	return out, nil
}
