package core

import (
	"fmt"
	"time"
)

// Statistic names used as keys in Report.Errors.
const (
	StatMostFrequentYear = "most_frequent_year"
	StatPriceSplit       = "price_split"
	StatTopGenre         = "top_genre"
)

// MostFrequentYear returns the year that occurs most often. Ties go to the
// year seen first.
func MostFrequentYear(years []string) (string, error) {
	if len(years) == 0 {
		return "", fmt.Errorf("most frequent year: %w", ErrEmptyInput)
	}
	counts := make(map[string]int, len(years))
	order := make([]string, 0)
	for _, y := range years {
		if _, seen := counts[y]; !seen {
			order = append(order, y)
		}
		counts[y]++
	}
	best := order[0]
	for _, y := range order[1:] {
		if counts[y] > counts[best] {
			best = y
		}
	}
	return best, nil
}

// FreePaidSplit returns the percentage of free (price exactly 0) and paid
// entries in prices.
func FreePaidSplit(prices []float64) (free, paid float64, err error) {
	if len(prices) == 0 {
		return 0, 0, fmt.Errorf("price split: %w", ErrEmptyInput)
	}
	var freeCount int
	for _, p := range prices {
		if p == 0 {
			freeCount++
		}
	}
	total := float64(len(prices))
	paidCount := len(prices) - freeCount
	return float64(freeCount) / total * 100, float64(paidCount) / total * 100, nil
}

// TopGenre returns the label with the largest total. Ties go to the label
// added first.
func TopGenre(totals *GenreTotals) (string, error) {
	entries := totals.Entries()
	if len(entries) == 0 {
		return "", fmt.Errorf("top genre: %w", ErrEmptyInput)
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Positive > best.Positive {
			best = e
		}
	}
	return best.Genre, nil
}

// Summarize runs every reporter over ds. A reporter that has nothing to work
// with records its error and leaves its field zero.
func Summarize(source string, ds Dataset) Report {
	r := Report{
		Source:      source,
		TargetYear:  ds.TargetYear,
		Rows:        ds.Len(),
		Skipped:     ds.Skipped,
		GenreTotals: ds.Genres.Entries(),
		GeneratedAt: time.Now().UTC(),
	}
	fail := func(stat string, err error) {
		if r.Errors == nil {
			r.Errors = make(map[string]error)
		}
		r.Errors[stat] = err
	}

	if y, err := MostFrequentYear(ds.Years); err != nil {
		fail(StatMostFrequentYear, err)
	} else {
		r.MostFrequentYear = y
	}
	if free, paid, err := FreePaidSplit(ds.Prices); err != nil {
		fail(StatPriceSplit, err)
	} else {
		r.FreePercentage, r.PaidPercentage = free, paid
	}
	if g, err := TopGenre(ds.Genres); err != nil {
		fail(StatTopGenre, err)
	} else {
		r.TopGenre = g
	}
	return r
}
