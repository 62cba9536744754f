package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntegration(t *testing.T) *Integration {
	t.Helper()
	i, err := NewIntegration(7, ProviderHRSystem, "HR", "https://hr.example.com/api/", "ops@example.com")
	require.NoError(t, err)
	return i
}

func TestNewIntegration(t *testing.T) {
	i := newTestIntegration(t)

	assert.Equal(t, StatusDisconnected, i.Status())
	assert.Equal(t, "https://hr.example.com/api", i.APIURL())
	assert.True(t, strings.HasPrefix(i.SID(), "intg_"))
	assert.False(t, i.HasToken())
}

func TestNewIntegration_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		provider Provider
		url      string
		wantErr  error
	}{
		{name: "unknown provider", userID: 1, provider: "crm", url: "https://x.io", wantErr: ErrInvalidProvider},
		{name: "relative url", userID: 1, provider: ProviderHRSystem, url: "/api", wantErr: ErrInvalidAPIURL},
		{name: "ftp url", userID: 1, provider: ProviderHRSystem, url: "ftp://x.io", wantErr: ErrInvalidAPIURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIntegration(tt.userID, tt.provider, "n", tt.url, "e@x.io")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := NewIntegration(0, ProviderHRSystem, "n", "https://x.io", "e@x.io")
	assert.Error(t, err)
}

func TestIntegration_ConnectLifecycle(t *testing.T) {
	i := newTestIntegration(t)
	exp := time.Now().Add(24 * time.Hour)

	require.NoError(t, i.MarkConnected("enc-token", exp))
	assert.Equal(t, StatusConnected, i.Status())
	assert.True(t, i.IsConnected(time.Now()))
	assert.Contains(t, i.Metadata(), "connected_at")

	require.NoError(t, i.MarkError("Connection test failed: boom"))
	assert.Equal(t, StatusError, i.Status())
	assert.True(t, i.HasToken(), "error keeps the token for a later test")
	assert.False(t, i.IsConnected(time.Now()))

	require.NoError(t, i.MarkHealthy())
	assert.Empty(t, i.ErrorMessage())

	require.NoError(t, i.Disconnect())
	assert.Equal(t, StatusDisconnected, i.Status())
	assert.False(t, i.HasToken())
	assert.Nil(t, i.TokenExpiresAt())

	require.NoError(t, i.Disconnect(), "disconnect is idempotent")
}

func TestIntegration_MarkConnectFailedClearsToken(t *testing.T) {
	i := newTestIntegration(t)
	require.NoError(t, i.MarkConnected("enc", time.Now().Add(time.Hour)))

	require.NoError(t, i.MarkConnectFailed("Authentication failed: bad password"))

	assert.Equal(t, StatusError, i.Status())
	assert.Equal(t, "Authentication failed: bad password", i.ErrorMessage())
	assert.False(t, i.HasToken())
}

func TestIntegration_UnknownStatusRejectsTransitions(t *testing.T) {
	now := time.Now()
	i := ReconstructIntegration(1, "intg_x", 7, ProviderHRSystem, "HR", Status("archived"),
		"https://hr.example.com", "e@x.io", "", nil, nil, SyncSettings{}, nil, "", now, now)

	assert.ErrorIs(t, i.MarkError("x"), ErrInvalidTransition)
	assert.ErrorIs(t, i.MarkConnected("enc", now.Add(time.Hour)), ErrInvalidTransition)
	assert.Equal(t, Status("archived"), i.Status())
}

func TestIntegration_HasValidTokenBoundary(t *testing.T) {
	i := newTestIntegration(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, i.MarkConnected("enc", now))

	assert.False(t, i.HasValidToken(now), "expiry equal to now is expired")
	assert.True(t, i.HasValidToken(now.Add(-time.Second)))
}

func TestSyncSettings(t *testing.T) {
	var s SyncSettings
	assert.True(t, s.AutoSyncOn())
	assert.True(t, s.Includes("attendance"))

	off := false
	s = s.Merge(SyncSettings{AutoSyncEnabled: &off, Entities: []string{"employees"}})
	assert.False(t, s.AutoSyncOn())
	assert.False(t, s.Includes("attendance"))

	s = s.Merge(SyncSettings{SyncTime: "02:00"})
	assert.Equal(t, "02:00", s.SyncTime)
	assert.Equal(t, []string{"employees"}, s.Entities)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("payroll_system")
	require.NoError(t, err)
	assert.Equal(t, ProviderPayrollSystem, p)

	_, err = ParseProvider("HR_SYSTEM")
	assert.ErrorIs(t, err, ErrInvalidProvider)
}
