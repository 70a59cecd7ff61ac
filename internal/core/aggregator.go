package core

import (
	"math"
	"strconv"
	"strings"
)

// FailureSink receives rows that were skipped during aggregation.
type FailureSink interface {
	RowFailed(err *RowParseError)
}

// FailureSinkFunc adapts a function to FailureSink.
type FailureSinkFunc func(err *RowParseError)

func (f FailureSinkFunc) RowFailed(err *RowParseError) { f(err) }

// Aggregator folds catalog records into a Dataset.
type Aggregator struct {
	// TargetYear selects the rows that contribute to genre totals.
	// Empty means DefaultTargetYear.
	TargetYear string
	// Sink is optional.
	Sink FailureSink
}

// Aggregate runs an Aggregator with the default target year.
func Aggregate(records []Record, sink FailureSink) Dataset {
	return Aggregator{Sink: sink}.Aggregate(records)
}

// Aggregate makes a single pass over records. Records that fail to parse are
// reported to the sink and contribute nothing to the result.
func (a Aggregator) Aggregate(records []Record) Dataset {
	target := a.TargetYear
	if target == "" {
		target = DefaultTargetYear
	}
	ds := Dataset{
		TargetYear: target,
		Years:      make([]string, 0, len(records)),
		Prices:     make([]float64, 0, len(records)),
		Genres:     NewGenreTotals(),
	}
	for i, rec := range records {
		row, err := ParseRow(rec)
		if err != nil {
			ds.Skipped++
			err.Index = i + 1
			if a.Sink != nil {
				a.Sink.RowFailed(err)
			}
			continue
		}
		ds.Years = append(ds.Years, row.Year)
		ds.Prices = append(ds.Prices, row.Price)
		if row.Year == target {
			ds.Genres.Add(row.Genres, row.Positive)
		}
	}
	return ds
}

// ParseRow converts a record into a Row. The returned error has no record
// index set.
//
// Price must parse as a float and Positive as a base-10 integer, both after
// trimming spaces. Stricter than a bare numeric parse: a NaN price and a
// negative price or review count are rejected too, so a Row never carries
// them.
func ParseRow(rec Record) (Row, *RowParseError) {
	fail := func(field, value string, err error) *RowParseError {
		return &RowParseError{Field: field, Value: value, Record: rec, Err: err}
	}

	price, err := parsePrice(rec[ColumnPrice])
	if err != nil {
		return Row{}, fail(ColumnPrice, rec[ColumnPrice], err)
	}
	positive, err := parseCount(rec[ColumnPositive])
	if err != nil {
		return Row{}, fail(ColumnPositive, rec[ColumnPositive], err)
	}

	date := rec[ColumnReleaseDate]
	return Row{
		ReleaseDate: date,
		Year:        ExtractYear(date),
		Price:       price,
		Genres:      rec[ColumnGenres],
		Positive:    positive,
	}, nil
}

// ExtractYear returns the last comma separated segment of a release date,
// so "Oct 21, 2022" yields "2022" and "2022" yields itself.
func ExtractYear(releaseDate string) string {
	if i := strings.LastIndexByte(releaseDate, ','); i >= 0 {
		releaseDate = releaseDate[i+1:]
	}
	return strings.TrimSpace(releaseDate)
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, ErrInvalidNumber
	}
	if v < 0 {
		return 0, ErrNegativeNumber
	}
	return v, nil
}

func parseCount(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidNumber
	}
	if v < 0 {
		return 0, ErrNegativeNumber
	}
	return v, nil
}
