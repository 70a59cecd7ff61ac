package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"steamstats/internal/core"

	_ "modernc.org/sqlite"
)

// StoredReport is a report read back from history.
type StoredReport struct {
	ID int64
	core.Report
}

// SQLiteRepository keeps a history of catalog reports.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Name identifies the repository as a report sink.
func (r *SQLiteRepository) Name() string {
	return "sqlite"
}

// Publish stores the report and its genre totals in one transaction.
func (r *SQLiteRepository) Publish(ctx context.Context, rep core.Report) error {
	_, err := r.SaveReport(ctx, rep)
	return err
}

// SaveReport stores rep and returns its id.
func (r *SQLiteRepository) SaveReport(ctx context.Context, rep core.Report) (int64, error) {
	errText, err := encodeErrors(rep.Errors)
	if err != nil {
		return 0, fmt.Errorf("encode report errors: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO reports (
			source, target_year, row_count, skipped,
			most_frequent_year, free_percentage, paid_percentage, top_genre,
			errors, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.Source,
		rep.TargetYear,
		rep.Rows,
		rep.Skipped,
		nullIfFailed(rep.Errors, core.StatMostFrequentYear, rep.MostFrequentYear),
		nullIfFailed(rep.Errors, core.StatPriceSplit, rep.FreePercentage),
		nullIfFailed(rep.Errors, core.StatPriceSplit, rep.PaidPercentage),
		nullIfFailed(rep.Errors, core.StatTopGenre, rep.TopGenre),
		errText,
		rep.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report id: %w", err)
	}

	for i, g := range rep.GenreTotals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_genres (report_id, position, genre, positive) VALUES (?, ?, ?, ?)`,
			id, i, g.Genre, g.Positive); err != nil {
			return 0, fmt.Errorf("insert genre total %q: %w", g.Genre, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit report: %w", err)
	}

	slog.InfoContext(ctx, "Report saved to SQLite",
		"id", id,
		"source", rep.Source,
		"target_year", rep.TargetYear,
		"genres", len(rep.GenreTotals))

	return id, nil
}

// ListReports returns the most recent reports, newest first.
func (r *SQLiteRepository) ListReports(ctx context.Context, limit int) ([]StoredReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, target_year, row_count, skipped,
		       most_frequent_year, free_percentage, paid_percentage, top_genre,
		       errors, generated_at
		FROM reports
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []StoredReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	for i := range out {
		genres, err := r.loadGenres(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].GenreTotals = genres
	}
	return out, nil
}

func (r *SQLiteRepository) loadGenres(ctx context.Context, reportID int64) ([]core.GenreTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT genre, positive FROM report_genres WHERE report_id = ? ORDER BY position`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query genres for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var out []core.GenreTotal
	for rows.Next() {
		var g core.GenreTotal
		if err := rows.Scan(&g.Genre, &g.Positive); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanReport(scanner interface{ Scan(dest ...any) error }) (StoredReport, error) {
	var (
		rep         StoredReport
		year        sql.NullString
		free, paid  sql.NullFloat64
		topGenre    sql.NullString
		errText     string
		generatedAt string
	)
	err := scanner.Scan(
		&rep.ID,
		&rep.Source,
		&rep.TargetYear,
		&rep.Rows,
		&rep.Skipped,
		&year,
		&free,
		&paid,
		&topGenre,
		&errText,
		&generatedAt,
	)
	if err != nil {
		return rep, err
	}

	rep.MostFrequentYear = year.String
	rep.FreePercentage = free.Float64
	rep.PaidPercentage = paid.Float64
	rep.TopGenre = topGenre.String
	if rep.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
		return rep, fmt.Errorf("parse generated_at: %w", err)
	}
	if rep.Errors, err = decodeErrors(errText); err != nil {
		return rep, fmt.Errorf("decode errors: %w", err)
	}
	return rep, nil
}

// nullIfFailed stores NULL for statistics whose reporter failed.
func nullIfFailed(failures map[string]error, stat string, v any) any {
	if failures[stat] != nil {
		return nil
	}
	return v
}

func encodeErrors(failures map[string]error) (string, error) {
	if len(failures) == 0 {
		return "", nil
	}
	msgs := make(map[string]string, len(failures))
	for k, err := range failures {
		msgs[k] = err.Error()
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeErrors(s string) (map[string]error, error) {
	if s == "" {
		return nil, nil
	}
	var msgs map[string]string
	if err := json.Unmarshal([]byte(s), &msgs); err != nil {
		return nil, err
	}
	out := make(map[string]error, len(msgs))
	for k, msg := range msgs {
		out[k] = errors.New(msg)
	}
	return out, nil
}
