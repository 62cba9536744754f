package externaltoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
)

var ErrNotFound = errors.New("external api token not found")

// Token is a per-user access token for the default external API, stored encrypted.
type Token struct {
	id             uint
	userID         uint
	encryptedToken string
	expiresAt      time.Time
	createdAt      time.Time
}

func NewToken(userID uint, encryptedToken string, expiresAt time.Time) (*Token, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if encryptedToken == "" {
		return nil, fmt.Errorf("token is required")
	}
	return &Token{
		userID:         userID,
		encryptedToken: encryptedToken,
		expiresAt:      expiresAt.UTC(),
		createdAt:      biztime.NowUTC(),
	}, nil
}

func ReconstructToken(id, userID uint, encryptedToken string, expiresAt, createdAt time.Time) *Token {
	return &Token{
		id:             id,
		userID:         userID,
		encryptedToken: encryptedToken,
		expiresAt:      expiresAt,
		createdAt:      createdAt,
	}
}

func (t *Token) ID() uint               { return t.id }
func (t *Token) UserID() uint           { return t.userID }
func (t *Token) EncryptedToken() string { return t.encryptedToken }
func (t *Token) ExpiresAt() time.Time   { return t.expiresAt }
func (t *Token) CreatedAt() time.Time   { return t.createdAt }

func (t *Token) SetID(id uint) { t.id = id }

// IsExpired is true once now reaches the expiry instant.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.expiresAt.After(now)
}

// RemainingTTL is the lifetime left at now, never negative.
func (t *Token) RemainingTTL(now time.Time) time.Duration {
	if d := t.expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Repository persists tokens. A user has at most one live row.
type Repository interface {
	Create(ctx context.Context, t *Token) error
	// DeleteByUser removes every row of the user and reports how many went.
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	// FindLatestValid returns the newest row expiring after now, or ErrNotFound.
	FindLatestValid(ctx context.Context, userID uint, now time.Time) (*Token, error)
}
