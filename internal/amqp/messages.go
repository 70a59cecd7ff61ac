package amqp

import (
	"encoding/json"
	"time"

	"steamstats/internal/core"
)

// ReportMessage carries a finished catalog report. Failed statistics are
// listed in Errors and their fields are omitted.
type ReportMessage struct {
	Source           string            `json:"source"`
	TargetYear       string            `json:"target_year"`
	Rows             int               `json:"rows"`
	Skipped          int               `json:"skipped"`
	MostFrequentYear string            `json:"most_frequent_year,omitempty"`
	FreePercentage   *float64          `json:"free_percentage,omitempty"`
	PaidPercentage   *float64          `json:"paid_percentage,omitempty"`
	TopGenre         string            `json:"top_genre,omitempty"`
	GenreTotals      []GenreTotal      `json:"genre_totals,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Timestamp        time.Time         `json:"timestamp"`
}

type GenreTotal struct {
	Genre    string `json:"genre"`
	Positive int    `json:"positive"`
}

// NewReportMessage converts a report into its wire form.
func NewReportMessage(r core.Report) *ReportMessage {
	msg := &ReportMessage{
		Source:           r.Source,
		TargetYear:       r.TargetYear,
		Rows:             r.Rows,
		Skipped:          r.Skipped,
		MostFrequentYear: r.MostFrequentYear,
		TopGenre:         r.TopGenre,
		GeneratedAt:      r.GeneratedAt,
		Timestamp:        time.Now(),
	}
	if r.Err(core.StatPriceSplit) == nil {
		free, paid := r.FreePercentage, r.PaidPercentage
		msg.FreePercentage, msg.PaidPercentage = &free, &paid
	}
	for _, g := range r.GenreTotals {
		msg.GenreTotals = append(msg.GenreTotals, GenreTotal{Genre: g.Genre, Positive: g.Positive})
	}
	for stat, err := range r.Errors {
		if msg.Errors == nil {
			msg.Errors = make(map[string]string, len(r.Errors))
		}
		msg.Errors[stat] = err.Error()
	}
	return msg
}

// Report converts the message back into a core report.
func (m *ReportMessage) Report() core.Report {
	r := core.Report{
		Source:           m.Source,
		TargetYear:       m.TargetYear,
		Rows:             m.Rows,
		Skipped:          m.Skipped,
		MostFrequentYear: m.MostFrequentYear,
		TopGenre:         m.TopGenre,
		GeneratedAt:      m.GeneratedAt,
	}
	if m.FreePercentage != nil {
		r.FreePercentage = *m.FreePercentage
	}
	if m.PaidPercentage != nil {
		r.PaidPercentage = *m.PaidPercentage
	}
	for _, g := range m.GenreTotals {
		r.GenreTotals = append(r.GenreTotals, core.GenreTotal{Genre: g.Genre, Positive: g.Positive})
	}
	for stat, msg := range m.Errors {
		if r.Errors == nil {
			r.Errors = make(map[string]error, len(m.Errors))
		}
		r.Errors[stat] = reportError(msg)
	}
	return r
}

// ToJSON converts the message to JSON bytes
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON creates a message from JSON bytes
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type reportError string

func (e reportError) Error() string { return string(e) }
