// Package dto holds the outward shapes of sync runs.
package dto

import (
	"fmt"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
)

// SyncResult is returned by a finished run.
type SyncResult struct {
	SyncLogID string        `json:"sync_log_id" yaml:"sync_log_id"`
	Type      string        `json:"type" yaml:"type"`
	DateFrom  string        `json:"date_from" yaml:"date_from"`
	DateTo    string        `json:"date_to" yaml:"date_to"`
	Stats     synclog.Stats `json:"stats" yaml:"stats"`
}

type SyncLogDTO struct {
	ID           string         `json:"id" yaml:"id"`
	UserID       *uint          `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Type         string         `json:"type" yaml:"type"`
	Entity       string         `json:"entity" yaml:"entity"`
	DateFrom     string         `json:"date_from" yaml:"date_from"`
	DateTo       string         `json:"date_to" yaml:"date_to"`
	Status       string         `json:"status" yaml:"status"`
	Stats        *synclog.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	StartedAt    time.Time      `json:"started_at" yaml:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	// Duration is whole seconds with an "s" suffix, empty while processing.
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func FromEntry(e *synclog.Entry) *SyncLogDTO {
	out := &SyncLogDTO{
		ID:           e.SID(),
		UserID:       e.UserID(),
		Type:         string(e.Type()),
		Entity:       e.Entity(),
		DateFrom:     biztime.FormatDate(e.DateFrom()),
		DateTo:       biztime.FormatDate(e.DateTo()),
		Status:       string(e.Status()),
		Stats:        e.Stats(),
		ErrorMessage: e.ErrorMessage(),
		StartedAt:    e.StartedAt(),
		CompletedAt:  e.CompletedAt(),
	}
	if d, ok := e.Duration(); ok {
		out.Duration = FormatDuration(d)
	}
	return out
}

// FormatDuration renders d as whole seconds, e.g. "42s".
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%ds", int64(d/time.Second))
}

type SyncStatus struct {
	HasToken      bool           `json:"has_token" yaml:"has_token"`
	LastSyncAt    *time.Time     `json:"last_sync_at" yaml:"last_sync_at"`
	LastSyncStats *synclog.Stats `json:"last_sync_stats" yaml:"last_sync_stats"`
	IsSyncing     bool           `json:"is_syncing" yaml:"is_syncing"`
	RecentSyncs   []*SyncLogDTO  `json:"recent_syncs" yaml:"recent_syncs"`
}

type SyncStatistics struct {
	From            string `json:"from" yaml:"from"`
	To              string `json:"to" yaml:"to"`
	synclog.Summary `yaml:",inline"`
	// StoredRecords counts local attendance rows dated within the window.
	StoredRecords int64 `json:"stored_records" yaml:"stored_records"`
}

// AutoSyncReport summarizes one scheduler pass over all eligible users.
type AutoSyncReport struct {
	Users     int `json:"users" yaml:"users"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
}
