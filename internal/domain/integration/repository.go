package integration

import "context"

// Repository persists integrations. (UserID, Provider) is unique.
type Repository interface {
	// GetByUserAndProvider returns ErrNotFound when no row exists.
	GetByUserAndProvider(ctx context.Context, userID uint, provider Provider) (*Integration, error)

	// Save inserts a new integration or updates an existing one.
	Save(ctx context.Context, i *Integration) error

	ListByUser(ctx context.Context, userID uint) ([]*Integration, error)

	// ListConnected returns every connected integration of a provider, across users.
	ListConnected(ctx context.Context, provider Provider) ([]*Integration, error)

	CountByStatus(ctx context.Context, userID uint) (map[Status]int64, error)
}
