package core

import (
	"errors"
	"fmt"
	"time"
)

// Column names expected in every catalog record.
const (
	ColumnReleaseDate = "Release date"
	ColumnPrice       = "Price"
	ColumnGenres      = "Genres"
	ColumnPositive    = "Positive"
)

// DefaultTargetYear is the year whose rows feed the genre totals.
const DefaultTargetYear = "2022"

// RequiredColumns lists the columns a reader must supply.
var RequiredColumns = []string{ColumnReleaseDate, ColumnPrice, ColumnGenres, ColumnPositive}

type (
	// Record is a raw input row keyed by column name.
	Record map[string]string

	// Row is a record whose numeric fields parsed successfully.
	Row struct {
		ReleaseDate string
		Year        string
		Price       float64
		Genres      string
		Positive    int
	}

	// Dataset is the aggregator output. Years and Prices are parallel and
	// follow input order.
	Dataset struct {
		TargetYear string
		Years      []string
		Prices     []float64
		Genres     *GenreTotals
		Skipped    int
	}

	// Report collects the reporter results for one dataset.
	Report struct {
		Source           string
		TargetYear       string
		Rows             int
		Skipped          int
		MostFrequentYear string
		FreePercentage   float64
		PaidPercentage   float64
		TopGenre         string
		// GenreTotals are the target year totals in first-seen order.
		GenreTotals      []GenreTotal
		GeneratedAt      time.Time
		// Errors holds reporter failures keyed by statistic name.
		Errors           map[string]error
	}
)

var (
	ErrEmptyInput     = errors.New("empty input")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrNegativeNumber = errors.New("negative number")
)

// RowParseError reports a record that was skipped during aggregation.
type RowParseError struct {
	Index  int // 1-based position among data records, header excluded
	Field  string
	Value  string
	Record Record
	Err    error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("record %d: parse %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// Len returns the number of rows that made it into the dataset.
func (d Dataset) Len() int {
	return len(d.Years)
}

// Err returns the failure recorded for stat, or nil.
func (r Report) Err(stat string) error {
	if r.Errors == nil {
		return nil
	}
	return r.Errors[stat]
}
