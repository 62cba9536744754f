// Package externaltoken keeps per-user tokens for the default external API.
package externaltoken

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/externaltoken"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/cache"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// Cipher seals tokens before they reach storage or the cache.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}

// Authenticator logs in against the default external API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type Config struct {
	// CacheWindow caps how long a token may live in the cache.
	CacheWindow time.Duration
	// TokenTTL is the lifetime given to tokens obtained by LoginAndSaveToken.
	TokenTTL time.Duration
}

// TokenStore is write-through: durable storage first, then the cache. A cache
// miss or cache failure always falls back to storage.
type TokenStore struct {
	repo   externaltoken.Repository
	tx     db.Transactor
	cache  cache.TokenCache
	cipher Cipher
	auth   Authenticator
	cfg    Config
	logger logger.Interface
	reads  singleflight.Group

	// writes counts SaveToken/RevokeToken calls per user. A storage read
	// only primes the cache when no write started while it was in flight.
	writesMu sync.Mutex
	writes   map[uint]uint64
}

func NewTokenStore(
	repo externaltoken.Repository,
	tx db.Transactor,
	tokenCache cache.TokenCache,
	cipher Cipher,
	auth Authenticator,
	cfg Config,
	logger logger.Interface,
) *TokenStore {
	if cfg.CacheWindow <= 0 {
		cfg.CacheWindow = 50 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &TokenStore{
		repo:   repo,
		tx:     tx,
		cache:  tokenCache,
		cipher: cipher,
		auth:   auth,
		cfg:    cfg,
		logger: logger,
		writes: make(map[uint]uint64),
	}
}

// GetValidToken returns the user's token, or "" when none is stored or the
// stored one has expired.
func (s *TokenStore) GetValidToken(ctx context.Context, userID uint) (string, error) {
	key := cache.ExternalTokenKey(userID)

	if sealed, ok := s.cached(ctx, key); ok {
		plain, err := s.cipher.Decrypt(sealed)
		if err == nil {
			return plain, nil
		}
		s.logger.Warnw("dropping undecryptable cached token", "user_id", userID, "error", err)
		_ = s.cache.Forget(ctx, key)
	}

	v, err, _ := s.reads.Do(key, func() (any, error) {
		gen := s.generation(userID)
		tok, err := s.repo.FindLatestValid(ctx, userID, biztime.NowUTC())
		if errors.Is(err, externaltoken.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return nil, err
		}

		plain, err := s.cipher.Decrypt(tok.EncryptedToken())
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt stored token: %w", err)
		}
		s.primeIfCurrent(ctx, userID, gen, key, tok.EncryptedToken(), tok.ExpiresAt())
		return plain, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SaveToken replaces the user's token.
func (s *TokenStore) SaveToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	sealed, err := s.cipher.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	tok, err := externaltoken.NewToken(userID, sealed, expiresAt)
	if err != nil {
		return err
	}

	s.bumpGeneration(userID)

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.repo.Create(ctx, tok)
	})
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.prime(ctx, cache.ExternalTokenKey(userID), sealed, tok.ExpiresAt())
	s.logger.Infow("external api token saved", "user_id", userID, "expires_at", tok.ExpiresAt())
	return nil
}

// RevokeToken removes every token of the user. Revoking twice is fine.
func (s *TokenStore) RevokeToken(ctx context.Context, userID uint) error {
	s.bumpGeneration(userID)
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if err := s.cache.Forget(ctx, cache.ExternalTokenKey(userID)); err != nil {
		s.logger.Warnw("failed to purge cached token", "user_id", userID, "error", err)
	}
	s.logger.Infow("external api token revoked", "user_id", userID, "rows", n)
	return nil
}

// LoginAndSaveToken logs in with the given credentials and stores the token
// for TokenTTL.
func (s *TokenStore) LoginAndSaveToken(ctx context.Context, userID uint, email, password string) (string, error) {
	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warnw("external api login failed", "user_id", userID, "error", err)
		return "", err
	}

	if err := s.SaveToken(ctx, userID, token, biztime.NowUTC().Add(s.cfg.TokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenStore) cached(ctx context.Context, key string) (string, bool) {
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warnw("token cache read failed", "key", key, "error", err)
		return "", false
	}
	return val, ok
}

// prime caches sealed for min(CacheWindow, time left). Expired tokens are
// never cached.
func (s *TokenStore) prime(ctx context.Context, key, sealed string, expiresAt time.Time) {
	ttl := min(s.cfg.CacheWindow, expiresAt.Sub(biztime.NowUTC()))
	if ttl <= 0 {
		return
	}
	if err := s.cache.Put(ctx, key, sealed, ttl); err != nil {
		s.logger.Warnw("token cache write failed", "key", key, "error", err)
	}
}

// primeIfCurrent primes the cache from a storage read taken at generation
// gen. If a write started meanwhile the read may be stale: nothing is cached,
// and a value put just before the write landed is dropped again.
func (s *TokenStore) primeIfCurrent(ctx context.Context, userID uint, gen uint64, key, sealed string, expiresAt time.Time) {
	if s.generation(userID) != gen {
		return
	}
	s.prime(ctx, key, sealed, expiresAt)
	if s.generation(userID) != gen {
		if err := s.cache.Forget(ctx, key); err != nil {
			s.logger.Warnw("failed to drop stale cached token", "key", key, "error", err)
		}
	}
}

func (s *TokenStore) generation(userID uint) uint64 {
	s.writesMu.Lock()
	defer s.writesMu.Unlock()
	return s.writes[userID]
}

func (s *TokenStore) bumpGeneration(userID uint) {
	s.writesMu.Lock()
	s.writes[userID]++
	s.writesMu.Unlock()
}
