package integration

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/id"
)

// Integration is a user's binding to one external provider. The token is held
// only in its encrypted form; decryption happens in the application layer.
type Integration struct {
	id             uint
	sid            string
	userID         uint
	provider       Provider
	name           string
	status         Status
	apiURL         string
	email          string
	encryptedToken string
	tokenExpiresAt *time.Time
	lastSyncedAt   *time.Time
	syncSettings   SyncSettings
	metadata       map[string]any
	errorMessage   string
	createdAt      time.Time
	updatedAt      time.Time
}

var transitions = map[Status][]Status{
	StatusDisconnected: {StatusConnected, StatusError},
	StatusConnected:    {StatusConnected, StatusError, StatusDisconnected},
	StatusError:        {StatusConnected, StatusError, StatusDisconnected},
}

// NewIntegration creates a disconnected integration for (userID, provider).
func NewIntegration(userID uint, provider Provider, name, apiURL, email string) (*Integration, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	normalized, err := NormalizeAPIURL(apiURL)
	if err != nil {
		return nil, err
	}

	sid, err := id.NewIntegrationSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Integration{
		sid:       sid,
		userID:    userID,
		provider:  provider,
		name:      name,
		status:    StatusDisconnected,
		apiURL:    normalized,
		email:     email,
		metadata:  map[string]any{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructIntegration rebuilds an Integration from persistence.
func ReconstructIntegration(
	id uint,
	sid string,
	userID uint,
	provider Provider,
	name string,
	status Status,
	apiURL string,
	email string,
	encryptedToken string,
	tokenExpiresAt *time.Time,
	lastSyncedAt *time.Time,
	syncSettings SyncSettings,
	metadata map[string]any,
	errorMessage string,
	createdAt, updatedAt time.Time,
) *Integration {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Integration{
		id:             id,
		sid:            sid,
		userID:         userID,
		provider:       provider,
		name:           name,
		status:         status,
		apiURL:         apiURL,
		email:          email,
		encryptedToken: encryptedToken,
		tokenExpiresAt: tokenExpiresAt,
		lastSyncedAt:   lastSyncedAt,
		syncSettings:   syncSettings,
		metadata:       metadata,
		errorMessage:   errorMessage,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// NormalizeAPIURL requires an absolute http(s) URL and strips trailing slashes.
func NormalizeAPIURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidAPIURL, raw)
	}
	return trimmed, nil
}

func (i *Integration) ID() uint                   { return i.id }
func (i *Integration) SID() string                { return i.sid }
func (i *Integration) UserID() uint               { return i.userID }
func (i *Integration) Provider() Provider         { return i.provider }
func (i *Integration) Name() string               { return i.name }
func (i *Integration) Status() Status             { return i.status }
func (i *Integration) APIURL() string             { return i.apiURL }
func (i *Integration) Email() string              { return i.email }
func (i *Integration) EncryptedToken() string     { return i.encryptedToken }
func (i *Integration) TokenExpiresAt() *time.Time { return i.tokenExpiresAt }
func (i *Integration) LastSyncedAt() *time.Time   { return i.lastSyncedAt }
func (i *Integration) SyncSettings() SyncSettings { return i.syncSettings }
func (i *Integration) ErrorMessage() string       { return i.errorMessage }
func (i *Integration) CreatedAt() time.Time       { return i.createdAt }
func (i *Integration) UpdatedAt() time.Time       { return i.updatedAt }

// Metadata returns a copy of the free-form metadata.
func (i *Integration) Metadata() map[string]any {
	out := make(map[string]any, len(i.metadata))
	for k, v := range i.metadata {
		out[k] = v
	}
	return out
}

// SetID sets the ID (only for persistence layer use)
func (i *Integration) SetID(id uint) {
	i.id = id
}

func (i *Integration) transitionTo(next Status) error {
	for _, allowed := range transitions[i.status] {
		if allowed == next {
			i.status = next
			i.updatedAt = biztime.NowUTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.status, next)
}

// UpdateConnectionDetails replaces the user-supplied connection fields ahead
// of a (re)connect attempt.
func (i *Integration) UpdateConnectionDetails(name, apiURL, email string) error {
	normalized, err := NormalizeAPIURL(apiURL)
	if err != nil {
		return err
	}
	i.name = name
	i.apiURL = normalized
	i.email = email
	i.updatedAt = biztime.NowUTC()
	return nil
}

// MarkConnected binds a fresh token and clears any previous error.
func (i *Integration) MarkConnected(encryptedToken string, expiresAt time.Time) error {
	if encryptedToken == "" {
		return fmt.Errorf("token is required to connect")
	}
	if err := i.transitionTo(StatusConnected); err != nil {
		return err
	}
	exp := expiresAt.UTC()
	i.encryptedToken = encryptedToken
	i.tokenExpiresAt = &exp
	i.errorMessage = ""
	i.metadata["connected_at"] = i.updatedAt.Format(time.RFC3339)
	return nil
}

// MarkHealthy records a successful connection test on a token-holding integration.
func (i *Integration) MarkHealthy() error {
	if err := i.transitionTo(StatusConnected); err != nil {
		return err
	}
	i.errorMessage = ""
	return nil
}

// MarkError moves the integration to error, keeping its token.
func (i *Integration) MarkError(message string) error {
	if err := i.transitionTo(StatusError); err != nil {
		return err
	}
	i.errorMessage = message
	return nil
}

// MarkConnectFailed records a failed connect attempt: error status, no token.
func (i *Integration) MarkConnectFailed(message string) error {
	if err := i.MarkError(message); err != nil {
		return err
	}
	i.encryptedToken = ""
	i.tokenExpiresAt = nil
	return nil
}

// Disconnect clears the credential binding. Disconnecting twice is a no-op.
func (i *Integration) Disconnect() error {
	if i.status != StatusDisconnected {
		if err := i.transitionTo(StatusDisconnected); err != nil {
			return err
		}
	}
	i.encryptedToken = ""
	i.tokenExpiresAt = nil
	i.errorMessage = ""
	return nil
}

// MarkSynced records the completion time of a successful sync run.
func (i *Integration) MarkSynced(at time.Time) {
	t := at.UTC()
	i.lastSyncedAt = &t
	i.updatedAt = biztime.NowUTC()
}

func (i *Integration) UpdateSyncSettings(patch SyncSettings) {
	i.syncSettings = i.syncSettings.Merge(patch)
	i.updatedAt = biztime.NowUTC()
}

// HasToken reports whether an (encrypted) token is stored, regardless of expiry.
func (i *Integration) HasToken() bool {
	return i.encryptedToken != ""
}

// HasValidToken reports a stored token whose expiry is strictly after now.
// A token without an expiry never expires.
func (i *Integration) HasValidToken(now time.Time) bool {
	if !i.HasToken() {
		return false
	}
	return i.tokenExpiresAt == nil || i.tokenExpiresAt.After(now)
}

// IsConnected is true only when connected and holding a valid token.
func (i *Integration) IsConnected(now time.Time) bool {
	return i.status == StatusConnected && i.HasValidToken(now)
}
