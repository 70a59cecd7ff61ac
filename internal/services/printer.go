package services

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"steamstats/internal/core"
)

// Printer writes a human readable report.
type Printer struct {
	w io.Writer
	// Genres is how many of the best genres to list; zero lists none.
	Genres int
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Name() string {
	return "printer"
}

func (p *Printer) Publish(_ context.Context, r core.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Source: %s (%d rows, %d skipped)\n", r.Source, r.Rows, r.Skipped)

	if err := r.Err(core.StatMostFrequentYear); err != nil {
		fmt.Fprintf(&b, "Most frequent release year: unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(&b, "Most frequent release year: %s\n", r.MostFrequentYear)
	}

	if err := r.Err(core.StatPriceSplit); err != nil {
		fmt.Fprintf(&b, "Free / paid games: unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(&b, "Free games: %.2f%%\n", r.FreePercentage)
		fmt.Fprintf(&b, "Paid games: %.2f%%\n", r.PaidPercentage)
	}

	if err := r.Err(core.StatTopGenre); err != nil {
		fmt.Fprintf(&b, "Top genre in %s: unavailable (%v)\n", r.TargetYear, err)
	} else {
		fmt.Fprintf(&b, "Top genre in %s: %q\n", r.TargetYear, r.TopGenre)
	}

	for _, g := range topGenres(r.GenreTotals, p.Genres) {
		fmt.Fprintf(&b, "  %-40q %d\n", g.Genre, g.Positive)
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

// topGenres returns the n largest totals. Equal totals keep first-seen order.
func topGenres(totals []core.GenreTotal, n int) []core.GenreTotal {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(totals)
	slices.SortStableFunc(sorted, func(a, b core.GenreTotal) int {
		return cmp.Compare(b.Positive, a.Positive)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
