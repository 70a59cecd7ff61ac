package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"steamstats/internal/amqp"
	"steamstats/internal/core"
)

type fakeStore struct {
	saved []core.Report
	err   error
}

func (s *fakeStore) SaveReport(_ context.Context, r core.Report) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, r)
	return int64(len(s.saved)), nil
}

func TestHistoryWorker_HandleReportMessage(t *testing.T) {
	report := core.Report{
		Source:           "csv:steam_games.csv",
		TargetYear:       "2022",
		Rows:             3,
		MostFrequentYear: "2022",
		TopGenre:         "Indie",
		GenreTotals:      []core.GenreTotal{{Genre: "Indie", Positive: 4}},
		GeneratedAt:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		msg       *amqp.ReportMessage
		storeErr  error
		wantSaved int
		wantErr   bool
	}{
		{
			name:      "stores report",
			msg:       amqp.NewReportMessage(report),
			wantSaved: 1,
		},
		{
			name:      "drops message without source",
			msg:       &amqp.ReportMessage{TargetYear: "2022"},
			wantSaved: 0,
		},
		{
			name:     "store failure requeues",
			msg:      amqp.NewReportMessage(report),
			storeErr: errors.New("database is locked"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{err: tt.storeErr}
			w := NewHistoryWorker(store)

			err := w.HandleReportMessage(context.Background(), tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleReportMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(store.saved) != tt.wantSaved {
				t.Fatalf("saved %d reports, want %d", len(store.saved), tt.wantSaved)
			}
			if tt.wantSaved == 1 && store.saved[0].TopGenre != "Indie" {
				t.Errorf("saved report = %+v", store.saved[0])
			}
		})
	}
}
