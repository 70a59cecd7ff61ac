package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"steamstats/internal/catalog/memory"
	"steamstats/internal/core"
	"steamstats/internal/log"
	"steamstats/internal/storage"
)

type fakeSink struct {
	name string
	err  error

	mu      sync.Mutex
	reports []core.Report
	closed  bool
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Publish(_ context.Context, r core.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return f.err
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

type blockingSink struct{}

func (blockingSink) Name() string { return "blocking" }

func (blockingSink) Publish(ctx context.Context, _ core.Report) error {
	<-ctx.Done()
	return ctx.Err()
}

type failingReader struct{ err error }

func (r failingReader) ReadRows(context.Context) ([]core.Record, error) { return nil, r.err }

func catalogRecords() []core.Record {
	return []core.Record{
		{"Release date": "Oct 21, 2022", "Price": "0", "Genres": "Indie", "Positive": "10"},
		{"Release date": "Jan 3, 2021", "Price": "9.99", "Genres": "Action", "Positive": "500"},
		{"Release date": "Mar 1, 2022", "Price": "N/A", "Genres": "Action", "Positive": "7"},
		{"Release date": "Jun 9, 2022", "Price": "19.99", "Genres": "Action,RPG", "Positive": "30"},
	}
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Level: slog.LevelDebug, Output: buf, Component: log.ComponentPipeline})
}

func TestReportService_Run(t *testing.T) {
	var logs bytes.Buffer
	sink := &fakeSink{name: "fake"}
	svc := NewReportService(memory.New(catalogRecords()...), []ReportSink{sink},
		ReportServiceConfig{Source: "memory"}, testLogger(&logs))

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Rows != 3 || report.Skipped != 1 {
		t.Errorf("rows/skipped = %d/%d, want 3/1", report.Rows, report.Skipped)
	}
	if report.MostFrequentYear != "2022" {
		t.Errorf("MostFrequentYear = %q, want 2022", report.MostFrequentYear)
	}
	if report.TopGenre != "Action,RPG" {
		t.Errorf("TopGenre = %q, want Action,RPG", report.TopGenre)
	}
	if len(report.Errors) != 0 {
		t.Errorf("unexpected statistic errors: %v", report.Errors)
	}
	if len(sink.reports) != 1 || sink.reports[0].Source != "memory" {
		t.Errorf("sink received %v", sink.reports)
	}

	out := logs.String()
	if !strings.Contains(out, "Skipping catalog row") || !strings.Contains(out, "record_index=3") {
		t.Errorf("row failure not logged with its record index:\n%s", out)
	}
	if !strings.Contains(out, "run_id=run_") {
		t.Errorf("run id missing from logs:\n%s", out)
	}
}

func TestReportService_TargetYear(t *testing.T) {
	svc := NewReportService(memory.New(catalogRecords()...), nil,
		ReportServiceConfig{Source: "memory", TargetYear: "2021"}, testLogger(&bytes.Buffer{}))

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.TargetYear != "2021" || report.TopGenre != "Action" {
		t.Errorf("got target %q top %q, want 2021 Action", report.TargetYear, report.TopGenre)
	}
}

func TestReportService_EmptyCatalog(t *testing.T) {
	sink := &fakeSink{name: "fake"}
	svc := NewReportService(memory.New(), []ReportSink{sink},
		ReportServiceConfig{Source: "memory"}, testLogger(&bytes.Buffer{}))

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("empty catalog should still publish, got %v", err)
	}
	for _, stat := range []string{core.StatMostFrequentYear, core.StatPriceSplit, core.StatTopGenre} {
		if !errors.Is(report.Err(stat), core.ErrEmptyInput) {
			t.Errorf("%s error = %v, want ErrEmptyInput", stat, report.Err(stat))
		}
	}
	if len(sink.reports) != 1 {
		t.Errorf("sink should receive the report with its failures")
	}
}

func TestReportService_ReadError(t *testing.T) {
	readErr := errors.New("disk on fire")
	sink := &fakeSink{name: "fake"}
	svc := NewReportService(failingReader{readErr}, []ReportSink{sink},
		ReportServiceConfig{Source: "csv:x"}, testLogger(&bytes.Buffer{}))

	_, err := svc.Run(context.Background())
	if !errors.Is(err, readErr) {
		t.Fatalf("Run() error = %v, want wrapped read error", err)
	}
	if len(sink.reports) != 0 {
		t.Error("sinks must not run after a read failure")
	}
}

func TestReportService_SinkErrorsJoined(t *testing.T) {
	errA := errors.New("a broke")
	errB := errors.New("b broke")
	ok := &fakeSink{name: "ok"}
	a := &fakeSink{name: "a", err: errA}
	b := &fakeSink{name: "b", err: errB}
	svc := NewReportService(memory.New(catalogRecords()...), []ReportSink{a, ok, b},
		ReportServiceConfig{Source: "memory"}, testLogger(&bytes.Buffer{}))

	_, err := svc.Run(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Run() error = %v, want both sink errors", err)
	}
	if len(ok.reports) != 1 {
		t.Error("healthy sink should still receive the report")
	}
}

func TestReportService_SinkTimeout(t *testing.T) {
	svc := NewReportService(memory.New(catalogRecords()...), []ReportSink{blockingSink{}},
		ReportServiceConfig{Source: "memory", SinkTimeout: 50 * time.Millisecond}, testLogger(&bytes.Buffer{}))

	_, err := svc.Run(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
}

func TestReportService_Close(t *testing.T) {
	a := &fakeSink{name: "a"}
	svc := NewReportService(memory.New(), []ReportSink{a, NewPrinter(&bytes.Buffer{})},
		DefaultReportServiceConfig(), nil)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !a.closed {
		t.Error("closable sink was not closed")
	}
}

func TestDefaultReportServiceConfig(t *testing.T) {
	config := DefaultReportServiceConfig()

	if config.TargetYear != "2022" {
		t.Errorf("expected TargetYear 2022, got %q", config.TargetYear)
	}
	if config.SinkTimeout != 30*time.Second {
		t.Errorf("expected SinkTimeout 30s, got %v", config.SinkTimeout)
	}
}

func TestReportService_RunIDReachesSinkLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var logs bytes.Buffer
	logger := testLogger(&logs)
	log.SetDefault(logger)

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := NewReportService(memory.New(catalogRecords()...), []ReportSink{repo},
		ReportServiceConfig{Source: "memory"}, logger)
	ctx := log.WithRunID(context.Background(), "run_feedbeef")
	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var sinkLine string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "Report saved to SQLite") {
			sinkLine = line
		}
	}
	if sinkLine == "" {
		t.Fatalf("sink did not log:\n%s", logs.String())
	}
	if !strings.Contains(sinkLine, "run_id=run_feedbeef") {
		t.Errorf("run_id missing from sink log record: %s", sinkLine)
	}
}
