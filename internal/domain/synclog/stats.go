package synclog

import "time"

// Outcome classifies one reconciled record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// Stats counts the outcomes of one run. Total always equals the sum of the
// four outcome counters.
type Stats struct {
	Total   int `json:"total" yaml:"total"`
	Created int `json:"created" yaml:"created"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Errors  int `json:"errors" yaml:"errors"`
}

func (s *Stats) Record(o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Errors++
	}
	s.Total++
}

// Synced is the number of rows written by the run.
func (s Stats) Synced() int {
	return s.Created + s.Updated
}

func (s Stats) Consistent() bool {
	return s.Total == s.Created+s.Updated+s.Skipped+s.Errors
}

// Summary aggregates runs inside a time window.
type Summary struct {
	TotalSyncs         int     `json:"total_syncs" yaml:"total_syncs"`
	Successful         int     `json:"successful" yaml:"successful"`
	Failed             int     `json:"failed" yaml:"failed"`
	TotalRecordsSynced int     `json:"total_records_synced" yaml:"total_records_synced"`
	AverageDurationSec float64 `json:"average_duration_seconds" yaml:"average_duration_seconds"`
}

// Summarize folds entries into a Summary. Average duration only counts
// completed runs.
func Summarize(entries []*Entry) Summary {
	var (
		sum       Summary
		total     time.Duration
		completed int
	)
	for _, e := range entries {
		sum.TotalSyncs++
		switch e.Status() {
		case StatusCompleted:
			sum.Successful++
			if st := e.Stats(); st != nil {
				sum.TotalRecordsSynced += st.Synced()
			}
			if d, ok := e.Duration(); ok {
				total += d
				completed++
			}
		case StatusFailed:
			sum.Failed++
		}
	}
	if completed > 0 {
		sum.AverageDurationSec = total.Seconds() / float64(completed)
	}
	return sum
}
