package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("attendance not found")
	ErrInvalidStatus = errors.New("invalid attendance status")
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusRemote  Status = "Remote"
)

// ParseStatus accepts any casing of a known status. An empty value means Present.
func ParseStatus(s string) (Status, error) {
	if strings.TrimSpace(s) == "" {
		return StatusPresent, nil
	}
	for _, st := range []Status{StatusPresent, StatusAbsent, StatusLate, StatusRemote} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Source records where a row came from.
type Source string

const (
	SourceManual  Source = "manual"
	SourceAPISync Source = "api_sync"
)

// Record is a local attendance row, unique per (EmployeeID, Date).
type Record struct {
	ID         uint
	EmployeeID string
	Date       time.Time
	Status     Status
	CheckIn    *string
	CheckOut   *string
	Hours      float64
	Overtime   float64
	Source     Source
	SyncedAt   *time.Time
	ExternalID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Fields are the mutable columns written by an upsert.
type Fields struct {
	Status     Status
	CheckIn    *string
	CheckOut   *string
	Hours      float64
	Overtime   float64
	Source     Source
	SyncedAt   time.Time
	ExternalID *string
}

// Repository is the storage contract the sync engine depends on.
type Repository interface {
	// UpsertByKey inserts or updates the row keyed by (employeeID, date) and
	// reports whether a new row was inserted.
	UpsertByKey(ctx context.Context, employeeID string, date time.Time, f Fields) (created bool, err error)
	FindByKey(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}
