package catalog

import (
	"errors"
	"testing"

	"steamstats/internal/core"
)

func TestNewHeader(t *testing.T) {
	h, err := NewHeader([]string{" Release date ", "Price", "Genres", "Positive", "Price"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h[core.ColumnReleaseDate] != 0 || h[core.ColumnPrice] != 4 {
		t.Fatalf("unexpected positions, last duplicate should win: %v", h)
	}

	if _, err := NewHeader(nil); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
	if _, err := NewHeader([]string{"Price", "Genres"}); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestRecords(t *testing.T) {
	rows := [][]string{
		{"Name", "Release date", "Price", "Genres", "Positive"},
		{"A", "2022", "0", "Indie", "1"},
		{},
		{"", " ", ""},
		{"B", "2021"},
	}
	recs, err := Records(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[1][core.ColumnReleaseDate] != " " || recs[1][core.ColumnPrice] != "" {
		t.Fatalf("row of empty cells should be kept as data: %v", recs[1])
	}
	if recs[0]["Name"] != "A" || recs[0][core.ColumnGenres] != "Indie" {
		t.Fatalf("unexpected record: %v", recs[0])
	}
	if v, ok := recs[2][core.ColumnPositive]; !ok || v != "" {
		t.Fatalf("short row should carry empty cells: %v", recs[2])
	}
}
