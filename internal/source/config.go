package source

import (
	"fmt"
	"strings"

	"steamstats/internal/config"
)

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := Type(appConfig.ResolveSourceType())
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid source type in config: %s", appConfig.SourceType)
	}

	return Config{
		Type:      sourceType,
		Path:      appConfig.InputPath,
		XLSXSheet: appConfig.XLSXSheet,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleSheetRange:         appConfig.GoogleSheetRange,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the source configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Type)
	}

	switch c.Type {
	case CSVSource, XLSXSource:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("input path is required for %s source", c.Type)
		}

	case SheetsSource:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
		// Credentials may also come from GOOGLE_APPLICATION_CREDENTIALS,
		// which the sheets client resolves itself.

	case MemorySource:
		// Path is optional
	}

	return nil
}

// Types returns all valid source types
func Types() []Type {
	return []Type{CSVSource, XLSXSource, SheetsSource, MemorySource}
}

// TypeStrings returns all valid source type strings
func TypeStrings() []string {
	types := Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
