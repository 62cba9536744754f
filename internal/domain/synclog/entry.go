package synclog

import (
	"errors"
	"fmt"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/id"
)

var (
	ErrNotFound         = errors.New("sync log not found")
	ErrAlreadyFinalized = errors.New("sync log already finalized")
	ErrInvalidRange     = errors.New("sync range start is after its end")
)

// Type tells who triggered a run.
type Type string

const (
	TypeManual Type = "manual"
	TypeAuto   Type = "auto"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

const EntityAttendance = "attendance"

// Entry audits exactly one sync run. It leaves processing once, to either
// completed or failed, and is never deleted.
type Entry struct {
	id           uint
	sid          string
	userID       *uint
	syncType     Type
	entity       string
	dateFrom     time.Time
	dateTo       time.Time
	status       Status
	stats        *Stats
	errorMessage string
	startedAt    time.Time
	completedAt  *time.Time
}

// NewEntry opens a processing entry for the given window.
func NewEntry(userID *uint, syncType Type, entity string, from, to time.Time) (*Entry, error) {
	if syncType != TypeManual && syncType != TypeAuto {
		return nil, fmt.Errorf("invalid sync type %q", syncType)
	}
	if entity == "" {
		return nil, fmt.Errorf("entity is required")
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	sid, err := id.NewSyncLogSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	return &Entry{
		sid:       sid,
		userID:    userID,
		syncType:  syncType,
		entity:    entity,
		dateFrom:  from,
		dateTo:    to,
		status:    StatusProcessing,
		startedAt: biztime.NowUTC(),
	}, nil
}

// ReconstructEntry rebuilds an Entry from persistence.
func ReconstructEntry(
	id uint,
	sid string,
	userID *uint,
	syncType Type,
	entity string,
	dateFrom, dateTo time.Time,
	status Status,
	stats *Stats,
	errorMessage string,
	startedAt time.Time,
	completedAt *time.Time,
) *Entry {
	return &Entry{
		id:           id,
		sid:          sid,
		userID:       userID,
		syncType:     syncType,
		entity:       entity,
		dateFrom:     dateFrom,
		dateTo:       dateTo,
		status:       status,
		stats:        stats,
		errorMessage: errorMessage,
		startedAt:    startedAt,
		completedAt:  completedAt,
	}
}

func (e *Entry) ID() uint                { return e.id }
func (e *Entry) SID() string             { return e.sid }
func (e *Entry) UserID() *uint           { return e.userID }
func (e *Entry) Type() Type              { return e.syncType }
func (e *Entry) Entity() string          { return e.entity }
func (e *Entry) DateFrom() time.Time     { return e.dateFrom }
func (e *Entry) DateTo() time.Time       { return e.dateTo }
func (e *Entry) Status() Status          { return e.status }
func (e *Entry) Stats() *Stats           { return e.stats }
func (e *Entry) ErrorMessage() string    { return e.errorMessage }
func (e *Entry) StartedAt() time.Time    { return e.startedAt }
func (e *Entry) CompletedAt() *time.Time { return e.completedAt }

func (e *Entry) SetID(id uint) { e.id = id }

func (e *Entry) IsProcessing() bool { return e.status == StatusProcessing }

// Complete finalizes a run that reconciled its batch, errors included.
func (e *Entry) Complete(stats Stats) error {
	if !e.IsProcessing() {
		return ErrAlreadyFinalized
	}
	now := biztime.NowUTC()
	e.status = StatusCompleted
	e.stats = &stats
	e.completedAt = &now
	return nil
}

// Fail finalizes a run that could not reconcile. No stats are kept.
func (e *Entry) Fail(message string) error {
	if !e.IsProcessing() {
		return ErrAlreadyFinalized
	}
	now := biztime.NowUTC()
	e.status = StatusFailed
	e.errorMessage = message
	e.completedAt = &now
	return nil
}

// Duration is completed_at - started_at; false while still processing.
func (e *Entry) Duration() (time.Duration, bool) {
	if e.completedAt == nil {
		return 0, false
	}
	return e.completedAt.Sub(e.startedAt), true
}
