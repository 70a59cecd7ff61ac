package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"steamstats/internal/catalog"
	"steamstats/internal/core"
	"steamstats/internal/log"
)

// ReportSink receives finished catalog reports.
type ReportSink interface {
	Name() string
	Publish(ctx context.Context, r core.Report) error
}

// ReportServiceConfig holds configuration for the report service
type ReportServiceConfig struct {
	// Source names the catalog in reports and logs
	Source string

	// TargetYear selects the rows that feed genre totals (default: "2022")
	TargetYear string

	// SinkTimeout bounds the whole sink fan-out (default: 30s)
	SinkTimeout time.Duration
}

// DefaultReportServiceConfig returns sensible defaults
func DefaultReportServiceConfig() ReportServiceConfig {
	return ReportServiceConfig{
		Source:      "unknown",
		TargetYear:  core.DefaultTargetYear,
		SinkTimeout: 30 * time.Second,
	}
}

// ReportService runs one catalog through the aggregator and reporters and
// hands the result to every configured sink.
type ReportService struct {
	reader catalog.RowReader
	sinks  []ReportSink
	config ReportServiceConfig
	logger *log.Logger
}

func NewReportService(reader catalog.RowReader, sinks []ReportSink, config ReportServiceConfig, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentPipeline})
	}
	if config.TargetYear == "" {
		config.TargetYear = core.DefaultTargetYear
	}
	if config.SinkTimeout <= 0 {
		config.SinkTimeout = DefaultReportServiceConfig().SinkTimeout
	}
	return &ReportService{
		reader: reader,
		sinks:  sinks,
		config: config,
		logger: logger,
	}
}

// Run reads the catalog, builds the report and publishes it. A read failure
// aborts the run. Sink failures are joined and returned with the report.
func (s *ReportService) Run(ctx context.Context) (core.Report, error) {
	start := time.Now()
	// Records logged with ctx, by readers and sinks too, get the run ID.
	if log.RunID(ctx) == "" {
		ctx = log.WithRunID(ctx, log.NewRunID())
	}
	logger := s.logger.WithFields(log.NewFields().WithSource(s.config.Source))
	ctx = log.NewContext(ctx, logger)

	records, err := s.reader.ReadRows(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read catalog",
			log.FieldOperation, log.OpRead,
			log.FieldError, err)
		return core.Report{}, fmt.Errorf("read catalog %s: %w", s.config.Source, err)
	}

	agg := core.Aggregator{
		TargetYear: s.config.TargetYear,
		Sink:       rowFailureLogger(ctx, logger),
	}
	ds := agg.Aggregate(records)

	logger.InfoContext(ctx, "Catalog aggregated",
		log.FieldOperation, log.OpAggregate,
		log.FieldTargetYear, ds.TargetYear,
		log.FieldRows, ds.Len(),
		log.FieldSkipped, ds.Skipped)

	report := core.Summarize(s.config.Source, ds)
	for stat, err := range report.Errors {
		logger.WarnContext(ctx, "Statistic unavailable",
			log.FieldOperation, log.OpReport,
			"statistic", stat,
			log.FieldError, err)
	}

	err = s.publish(ctx, report)

	logger.InfoContext(ctx, "Report run finished",
		log.FieldDuration, time.Since(start).Milliseconds(),
		log.FieldSuccess, err == nil)

	return report, err
}

// publish sends the report to every sink concurrently. All sinks run even
// when one fails.
func (s *ReportService) publish(ctx context.Context, report core.Report) error {
	if len(s.sinks) == 0 {
		return nil
	}

	logger := log.FromContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, s.config.SinkTimeout)
	defer cancel()

	errs := make([]error, len(s.sinks))
	var g errgroup.Group
	for i, sink := range s.sinks {
		g.Go(func() error {
			if err := sink.Publish(ctx, report); err != nil {
				logger.ErrorContext(ctx, "Sink failed",
					log.FieldOperation, log.OpPublish,
					log.FieldSink, sink.Name(),
					log.FieldError, err)
				errs[i] = fmt.Errorf("%s: %w", sink.Name(), err)
				return nil
			}
			logger.DebugContext(ctx, "Sink published report", log.FieldSink, sink.Name())
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// Close closes every sink that holds resources.
func (s *ReportService) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		c, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close report service: %w", errors.Join(errs...))
	}
	return nil
}

func rowFailureLogger(ctx context.Context, logger *log.Logger) core.FailureSink {
	return core.FailureSinkFunc(func(e *core.RowParseError) {
		fields := log.NewFields().
			WithOperation(log.OpAggregate).
			WithRecordFailure(e.Index, e.Field, e.Value).
			WithError(e.Err)
		fields[log.FieldRecord] = e.Record
		logger.WarnContext(ctx, "Skipping catalog row", fields.ToSlice()...)
	})
}
