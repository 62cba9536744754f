// Package integration manages user bindings to external systems.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/cache"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

const (
	msgNotFound     = "Integration not found"
	msgNotConnected = "Integration is not connected"
	msgNoToken      = "No token found. Please reconnect."
	msgTokenExpired = "Token expired. Please reconnect."
)

// Cipher seals tokens before they reach storage or the cache.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}

type Config struct {
	// TokenTTL is the lifetime assumed for tokens obtained at connect time.
	TokenTTL time.Duration
	// CacheWindow caps how long a token may live in the cache.
	CacheWindow time.Duration
}

// Registry owns the integration lifecycle and hands out HR clients bound to
// a connected integration.
type Registry struct {
	repo   integration.Repository
	client *hrapi.Client
	cipher Cipher
	cache  cache.TokenCache
	cfg    Config
	logger logger.Interface
}

func NewRegistry(
	repo integration.Repository,
	client *hrapi.Client,
	cipher Cipher,
	tokenCache cache.TokenCache,
	cfg Config,
	logger logger.Interface,
) *Registry {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.CacheWindow <= 0 {
		cfg.CacheWindow = cfg.TokenTTL
	}
	return &Registry{
		repo:   repo,
		client: client,
		cipher: cipher,
		cache:  tokenCache,
		cfg:    cfg,
		logger: logger,
	}
}

// DefaultName is "<Provider> Integration" with the identifier title-cased.
func DefaultName(p integration.Provider) string {
	return cases.Title(language.Und).String(p.String()) + " Integration"
}

func (r *Registry) load(ctx context.Context, userID uint, provider integration.Provider) (*integration.Integration, error) {
	i, err := r.repo.GetByUserAndProvider(ctx, userID, provider)
	if errors.Is(err, integration.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}
	return i, nil
}

// GetToken returns the decrypted token of a non-expired integration, or ""
// when there is none.
func (r *Registry) GetToken(ctx context.Context, userID uint, provider integration.Provider) (string, error) {
	key := cache.IntegrationTokenKey(userID, provider.String())

	if sealed, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warnw("token cache read failed", "key", key, "error", err)
	} else if ok {
		if plain, err := r.cipher.Decrypt(sealed); err == nil {
			return plain, nil
		}
		_ = r.cache.Forget(ctx, key)
	}

	i, err := r.repo.GetByUserAndProvider(ctx, userID, provider)
	if errors.Is(err, integration.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load integration: %w", err)
	}
	if !i.HasValidToken(biztime.NowUTC()) {
		return "", nil
	}

	plain, err := r.cipher.Decrypt(i.EncryptedToken())
	if err != nil {
		return "", fmt.Errorf("failed to decrypt integration token: %w", err)
	}
	r.cacheToken(ctx, i)
	return plain, nil
}

// GetConfiguredClient returns a client bound to the integration's base URL
// and token.
func (r *Registry) GetConfiguredClient(ctx context.Context, userID uint, provider integration.Provider) (*hrapi.Client, error) {
	i, err := r.load(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	if i.Status() != integration.StatusConnected {
		return nil, apperrors.NewNotConnectedError(msgNotConnected)
	}

	token, err := r.GetToken(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, apperrors.NewTokenExpiredError(msgTokenExpired)
	}

	return r.client.Configure(i.APIURL()).WithToken(token), nil
}

// HasActiveIntegration reports an existing integration in connected status.
func (r *Registry) HasActiveIntegration(ctx context.Context, userID uint, provider integration.Provider) (bool, error) {
	i, err := r.repo.GetByUserAndProvider(ctx, userID, provider)
	if errors.Is(err, integration.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load integration: %w", err)
	}
	return i.Status() == integration.StatusConnected, nil
}

// HasValidToken reports whether GetToken would return a token.
func (r *Registry) HasValidToken(ctx context.Context, userID uint, provider integration.Provider) (bool, error) {
	token, err := r.GetToken(ctx, userID, provider)
	return token != "", err
}

// MarkSynced stamps last_synced_at after a completed run.
func (r *Registry) MarkSynced(ctx context.Context, userID uint, provider integration.Provider, at time.Time) error {
	i, err := r.load(ctx, userID, provider)
	if err != nil {
		return err
	}
	i.MarkSynced(at)
	if err := r.repo.Save(ctx, i); err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}
	return nil
}

// ListAutoSyncUsers returns the owners of connected integrations of provider
// whose settings keep auto sync on for entity.
func (r *Registry) ListAutoSyncUsers(ctx context.Context, provider integration.Provider, entity string) ([]uint, error) {
	list, err := r.repo.ListConnected(ctx, provider)
	if err != nil {
		return nil, err
	}
	users := make([]uint, 0, len(list))
	for _, i := range list {
		s := i.SyncSettings()
		if s.AutoSyncOn() && s.Includes(entity) {
			users = append(users, i.UserID())
		}
	}
	return users, nil
}

func (r *Registry) ListUserIntegrations(ctx context.Context, userID uint) ([]*dto.IntegrationDTO, error) {
	list, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return dto.FromDomainList(list, biztime.NowUTC()), nil
}

func (r *Registry) GetStatusSummary(ctx context.Context, userID uint) (*dto.StatusSummary, error) {
	counts, err := r.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count integrations: %w", err)
	}
	s := &dto.StatusSummary{
		Connected:    counts[integration.StatusConnected],
		Disconnected: counts[integration.StatusDisconnected],
		Error:        counts[integration.StatusError],
	}
	for _, n := range counts {
		s.Total += n
	}
	return s, nil
}

func (r *Registry) cacheToken(ctx context.Context, i *integration.Integration) {
	ttl := r.cfg.CacheWindow
	if exp := i.TokenExpiresAt(); exp != nil {
		ttl = min(ttl, exp.Sub(biztime.NowUTC()))
	}
	if err := r.cache.Put(ctx, cache.IntegrationTokenKey(i.UserID(), i.Provider().String()), i.EncryptedToken(), ttl); err != nil {
		r.logger.Warnw("token cache write failed", "user_id", i.UserID(), "provider", i.Provider(), "error", err)
	}
}

func (r *Registry) forgetToken(ctx context.Context, userID uint, provider integration.Provider) {
	if err := r.cache.Forget(ctx, cache.IntegrationTokenKey(userID, provider.String())); err != nil {
		r.logger.Warnw("failed to purge cached token", "user_id", userID, "provider", provider, "error", err)
	}
}
