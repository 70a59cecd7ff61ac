package source

import (
	"context"

	"steamstats/internal/catalog"
)

// CleanupFunc releases resources held by a source
type CleanupFunc func() error

// Result contains the opened reader, the name reports carry, and an
// optional cleanup function
type Result struct {
	Reader  catalog.RowReader
	Name    string
	Cleanup CleanupFunc
}

// Factory opens catalog sources based on configuration
type Factory interface {
	Open(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source creation
type Config struct {
	Type Type

	// File sources (csv, xlsx); memory seeds from Path when it exists
	Path      string
	XLSXSheet string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleSheetRange         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// Type names a catalog source kind
type Type string

const (
	CSVSource    Type = "csv"
	XLSXSource   Type = "xlsx"
	SheetsSource Type = "sheets"
	MemorySource Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the source type is known
func (t Type) IsValid() bool {
	switch t {
	case CSVSource, XLSXSource, SheetsSource, MemorySource:
		return true
	default:
		return false
	}
}
