package synclog

import (
	"context"
	"time"
)

// Filter scopes queries. A nil UserID spans every user; an empty Entity
// spans every entity.
type Filter struct {
	UserID *uint
	Entity string
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// Update persists the terminal transition of e.
	Update(ctx context.Context, e *Entry) error
	// FindLatestCompleted returns ErrNotFound when no run has completed.
	FindLatestCompleted(ctx context.Context, f Filter) (*Entry, error)
	ExistsProcessing(ctx context.Context, f Filter) (bool, error)
	// ListRecent returns the newest entries first.
	ListRecent(ctx context.Context, f Filter, limit int) ([]*Entry, error)
	// ListStartedBetween returns entries whose start lies in [from, to].
	ListStartedBetween(ctx context.Context, f Filter, from, to time.Time) ([]*Entry, error)
}
