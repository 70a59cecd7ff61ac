package worker

import (
	"context"
	"fmt"
	"log/slog"

	"steamstats/internal/amqp"
	"steamstats/internal/core"
)

// ReportStore persists reports received from the queue.
type ReportStore interface {
	SaveReport(ctx context.Context, r core.Report) (int64, error)
}

// HistoryWorker stores report events published by other runs.
type HistoryWorker struct {
	store ReportStore
}

func NewHistoryWorker(store ReportStore) *HistoryWorker {
	return &HistoryWorker{store: store}
}

// HandleReportMessage saves a single report message. A returned error makes
// the consumer requeue the message.
func (w *HistoryWorker) HandleReportMessage(ctx context.Context, msg *amqp.ReportMessage) error {
	slog.InfoContext(ctx, "Processing report message",
		"source", msg.Source,
		"target_year", msg.TargetYear,
		"generated_at", msg.GeneratedAt)

	if msg.Source == "" || msg.TargetYear == "" {
		// Nothing useful to store; ack and drop.
		slog.WarnContext(ctx, "Dropping report message without source or target year")
		return nil
	}

	id, err := w.store.SaveReport(ctx, msg.Report())
	if err != nil {
		return fmt.Errorf("save report from queue: %w", err)
	}

	slog.InfoContext(ctx, "Stored report from queue", "id", id, "source", msg.Source)
	return nil
}
