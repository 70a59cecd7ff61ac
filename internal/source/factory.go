package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"steamstats/internal/catalog"
	"steamstats/internal/catalog/csvfile"
	gsheet "steamstats/internal/catalog/google"
	"steamstats/internal/catalog/memory"
	"steamstats/internal/catalog/xlsx"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// Open implements Factory.Open
func (f *DefaultFactory) Open(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVSource:
		return f.openCSV(config)
	case XLSXSource:
		return f.openXLSX(config)
	case SheetsSource:
		return f.openSheets(ctx, config)
	case MemorySource:
		return f.openMemory(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) openCSV(config Config) (*Result, error) {
	r := csvfile.New(config.Path)
	f.logger.Info("Initialized CSV source", "path", config.Path)
	return result(r), nil
}

func (f *DefaultFactory) openXLSX(config Config) (*Result, error) {
	r := xlsx.New(config.Path, config.XLSXSheet)
	f.logger.Info("Initialized XLSX source", "path", config.Path, "sheet", config.XLSXSheet)
	return result(r), nil
}

func (f *DefaultFactory) openSheets(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		Range:              config.GoogleSheetRange,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets source", "spreadsheet_id", config.GoogleSpreadsheetID)
	return result(cli), nil
}

// openMemory seeds an in-memory store from the CSV at Path when the file
// exists; otherwise the store starts empty.
func (f *DefaultFactory) openMemory(ctx context.Context, config Config) (*Result, error) {
	store := memory.New()
	if config.Path == "" {
		f.logger.Info("Initialized empty memory source")
		return result(store), nil
	}

	records, err := csvfile.New(config.Path).ReadRows(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.logger.Info("Initialized empty memory source", "missing_seed", config.Path)
		return result(store), nil
	case err != nil:
		return nil, fmt.Errorf("seed memory source: %w", err)
	}

	for _, rec := range records {
		if _, err := store.Append(ctx, rec); err != nil {
			return nil, fmt.Errorf("seed memory source: %w", err)
		}
	}
	f.logger.Info("Initialized memory source", "seed", config.Path, "records", len(records))
	return result(store), nil
}

func result(r catalog.RowReader) *Result {
	name := "unknown"
	if d, ok := r.(catalog.Describer); ok {
		name = d.Describe()
	}
	return &Result{Reader: r, Name: name}
}

