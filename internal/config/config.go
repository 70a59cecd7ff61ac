package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Input
	SourceType string
	InputPath  string
	XLSXSheet  string

	// Aggregation
	TargetYear string

	// Logging
	LogLevel string

	// Report history (SQLite), disabled when empty
	ReportDBPath string

	// AMQP report events, disabled when URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets source
	GoogleSpreadsheetID       string
	GoogleSheetName           string
	GoogleSheetRange          string
	GoogleServiceAccountJSON  string
	GoogleServiceAccountFile  string
	GoogleApplicationCredsEnv string

	// Sinks
	SinkTimeout time.Duration

	// History listing
	HistoryLimit int
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidSourceTypes lists the accepted SOURCE_TYPE values.
var ValidSourceTypes = []string{"csv", "xlsx", "sheets", "memory"}

func Load() *Config {
	cfg := &Config{
		SourceType: getEnv("SOURCE_TYPE", ""),
		InputPath:  getEnv("INPUT_PATH", "steam_games.csv"),
		XLSXSheet:  getEnv("XLSX_SHEET", ""),

		TargetYear: getEnv("TARGET_YEAR", "2022"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		ReportDBPath: getEnv("REPORT_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "steamstats"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "catalog_reports"),

		GoogleSpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:           getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleSheetRange:          getEnv("GOOGLE_SHEET_RANGE", ""),
		GoogleServiceAccountJSON:  getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:  getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredsEnv: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		SinkTimeout: getEnvDuration("SINK_TIMEOUT", 30*time.Second),

		HistoryLimit: getEnvInt("HISTORY_LIMIT", 10),
	}
	cfg.SourceType = cfg.ResolveSourceType()
	return cfg
}

// ResolveSourceType returns SourceType, or a type inferred from the input
// path extension when SourceType is empty.
func (c *Config) ResolveSourceType() string {
	if t := strings.ToLower(strings.TrimSpace(c.SourceType)); t != "" {
		return t
	}
	switch strings.ToLower(filepath.Ext(c.InputPath)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return "csv"
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate source type
	isValidSource := false
	for _, s := range ValidSourceTypes {
		if c.SourceType == s {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid source type '%s': must be one of %v", c.SourceType, ValidSourceTypes))
	}

	// File based sources need a path
	if (c.SourceType == "csv" || c.SourceType == "xlsx") && strings.TrimSpace(c.InputPath) == "" {
		errors = append(errors, fmt.Sprintf("input path cannot be empty when using %s source", c.SourceType))
	}

	// Validate Google Sheets configuration if source is sheets
	if c.SourceType == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && c.GoogleApplicationCredsEnv == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate target year
	if !yearPattern.MatchString(c.TargetYear) {
		errors = append(errors, fmt.Sprintf("invalid target year '%s': must be four digits", c.TargetYear))
	}

	// Validate log level
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Validate report database directory if history is enabled
	if c.ReportDBPath != "" {
		dir := filepath.Dir(c.ReportDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create report database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SinkTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sink timeout %v: must be at least 1 second", c.SinkTimeout))
	} else if c.SinkTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sink timeout %v: must be at most 10 minutes", c.SinkTimeout))
	}

	if c.HistoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at least 1", c.HistoryLimit))
	} else if c.HistoryLimit > 1000 {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at most 1000", c.HistoryLimit))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
