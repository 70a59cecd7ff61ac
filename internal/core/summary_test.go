package core

import (
	"errors"
	"math"
	"testing"
)

func TestMostFrequentYear(t *testing.T) {
	cases := []struct {
		name  string
		years []string
		want  string
	}{
		{"clear winner", []string{"2022", "2021", "2022", "2023", "2022"}, "2022"},
		{"single", []string{"2019"}, "2019"},
		{"tie goes to first seen", []string{"2023", "2021", "2021", "2023"}, "2023"},
		{"tie not alphabetical", []string{"2024", "2020"}, "2024"},
		{"later overtakes", []string{"2020", "2021", "2021"}, "2021"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MostFrequentYear(tc.years)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMostFrequentYearEmpty(t *testing.T) {
	if _, err := MostFrequentYear(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestFreePaidSplit(t *testing.T) {
	free, paid, err := FreePaidSplit([]float64{0, 0, 10, 20, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free != 60 || paid != 40 {
		t.Fatalf("got (%v, %v), want (60, 40)", free, paid)
	}

	cases := [][]float64{
		{0},
		{1.5},
		{0, 0.001, 3},
		{0, 1, 2, 3, 4, 5, 6},
	}
	for i, prices := range cases {
		free, paid, err := FreePaidSplit(prices)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if math.Abs(free+paid-100) > 1e-9 {
			t.Errorf("case %d: %v + %v != 100", i, free, paid)
		}
	}
}

func TestFreePaidSplitNoTolerance(t *testing.T) {
	free, _, err := FreePaidSplit([]float64{1e-12, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free != 50 {
		t.Fatalf("free = %v, want 50", free)
	}
}

func TestFreePaidSplitEmpty(t *testing.T) {
	if _, _, err := FreePaidSplit(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestTopGenre(t *testing.T) {
	totals := GenreTotalsOf(
		GenreTotal{"Ação", 100},
		GenreTotal{"Aventura", 200},
		GenreTotal{"Action,RPG", 300},
	)
	got, err := TopGenre(totals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Action,RPG" {
		t.Fatalf("got %q, want Action,RPG", got)
	}

	tied := GenreTotalsOf(GenreTotal{"Zeta", 5}, GenreTotal{"Alpha", 5}, GenreTotal{"Mid", 1})
	if got, _ := TopGenre(tied); got != "Zeta" {
		t.Fatalf("tie: got %q, want Zeta", got)
	}
}

func TestTopGenreEmpty(t *testing.T) {
	if _, err := TopGenre(NewGenreTotals()); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := TopGenre(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for nil totals, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	ds := Aggregate(sampleRecords(), nil)
	r := Summarize("memory", ds)
	if len(r.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if r.MostFrequentYear != "2022" || r.TopGenre != "Action,RPG" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.Rows != 6 || r.Skipped != 1 || r.Source != "memory" {
		t.Fatalf("unexpected bookkeeping: %+v", r)
	}
	if math.Abs(r.FreePercentage-100.0/3) > 1e-9 {
		t.Errorf("free = %v", r.FreePercentage)
	}
}

func TestSummarizeNoTargetYearRows(t *testing.T) {
	ds := Aggregator{TargetYear: "1999"}.Aggregate(sampleRecords())
	r := Summarize("memory", ds)
	if !errors.Is(r.Err(StatTopGenre), ErrEmptyInput) {
		t.Fatalf("expected top genre failure, got %v", r.Errors)
	}
	if r.Err(StatMostFrequentYear) != nil || r.MostFrequentYear == "" {
		t.Fatalf("most frequent year should still be computed: %+v", r)
	}
}

func TestSummarizeEmptyDataset(t *testing.T) {
	r := Summarize("memory", Aggregate(nil, nil))
	for _, stat := range []string{StatMostFrequentYear, StatPriceSplit, StatTopGenre} {
		if !errors.Is(r.Err(stat), ErrEmptyInput) {
			t.Errorf("%s: expected ErrEmptyInput, got %v", stat, r.Err(stat))
		}
	}
}
