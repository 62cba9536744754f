package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	integrationapp "github.com/Logicalyan/dashbord-reporting-module/internal/application/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	domain "github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/testutil"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

// =====================================================================
// Mock registry
// =====================================================================

type mockRegistry struct {
	list    []*dto.IntegrationDTO
	summary *dto.StatusSummary
	result  *dto.IntegrationDTO
	test    *dto.ConnectionTestResult
	err     error

	connectCmd  integrationapp.ConnectCommand
	settingsCmd integrationapp.UpdateSyncSettingsCommand
	provider    domain.Provider
	password    string
	calls       int
}

func (m *mockRegistry) ListUserIntegrations(context.Context, uint) ([]*dto.IntegrationDTO, error) {
	m.calls++
	return m.list, m.err
}

func (m *mockRegistry) GetStatusSummary(context.Context, uint) (*dto.StatusSummary, error) {
	m.calls++
	return m.summary, m.err
}

func (m *mockRegistry) Connect(_ context.Context, cmd integrationapp.ConnectCommand) (*dto.IntegrationDTO, error) {
	m.calls++
	m.connectCmd = cmd
	return m.result, m.err
}

func (m *mockRegistry) Disconnect(_ context.Context, _ uint, p domain.Provider) error {
	m.calls++
	m.provider = p
	return m.err
}

func (m *mockRegistry) TestConnection(_ context.Context, _ uint, p domain.Provider) (*dto.ConnectionTestResult, error) {
	m.calls++
	m.provider = p
	return m.test, m.err
}

func (m *mockRegistry) Reauthenticate(_ context.Context, _ uint, p domain.Provider, password string) (*dto.IntegrationDTO, error) {
	m.calls++
	m.provider, m.password = p, password
	return m.result, m.err
}

func (m *mockRegistry) UpdateSyncSettings(_ context.Context, cmd integrationapp.UpdateSyncSettingsCommand) (*dto.IntegrationDTO, error) {
	m.calls++
	m.settingsCmd = cmd
	return m.result, m.err
}

func sampleIntegration() *dto.IntegrationDTO {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &dto.IntegrationDTO{
		ID:            "intg_abc",
		Provider:      "hr_system",
		Name:          "Hr_system Integration",
		Status:        "connected",
		APIURL:        "https://hr.example.com/api",
		Email:         "ops@example.com",
		HasValidToken: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newTestHandler(reg *mockRegistry) *Handler {
	return NewHandler(reg, testutil.NewMockLogger())
}

// =====================================================================
// List
// =====================================================================

func TestHandler_List(t *testing.T) {
	reg := &mockRegistry{
		list:    []*dto.IntegrationDTO{sampleIntegration()},
		summary: &dto.StatusSummary{Total: 1, Connected: 1},
	}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodGet, "/integrations", nil)
	testutil.SetAuthContext(c, 7)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Contains(t, string(resp.Data), `"summary":{"total":1,"connected":1,"disconnected":0,"error":0}`)
	assert.Contains(t, string(resp.Data), `"id":"intg_abc"`)
	assert.NotContains(t, string(resp.Data), `"token":`, "raw token never serialized")
}

// =====================================================================
// Connect
// =====================================================================

func TestHandler_Connect_Success(t *testing.T) {
	reg := &mockRegistry{result: sampleIntegration()}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodPost, "/integrations/connect", ConnectRequest{
		Provider: "hr_system",
		APIURL:   "https://hr.example.com/api/",
		Email:    "ops@example.com",
		Password: "secret",
	})
	testutil.SetAuthContext(c, 7)

	handler.Connect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), reg.connectCmd.UserID)
	assert.Equal(t, domain.ProviderHRSystem, reg.connectCmd.Provider)
	assert.Equal(t, "secret", reg.connectCmd.Password)
}

func TestHandler_Connect_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  ConnectRequest
	}{
		{name: "missing password", req: ConnectRequest{Provider: "hr_system", APIURL: "https://hr.example.com", Email: "ops@example.com"}},
		{name: "bad url", req: ConnectRequest{Provider: "hr_system", APIURL: "not a url", Email: "ops@example.com", Password: "x"}},
		{name: "bad email", req: ConnectRequest{Provider: "hr_system", APIURL: "https://hr.example.com", Email: "ops", Password: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &mockRegistry{}
			handler := newTestHandler(reg)
			c, w := testutil.NewTestContext(http.MethodPost, "/integrations/connect", tt.req)
			testutil.SetAuthContext(c, 7)

			handler.Connect(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, reg.calls)
		})
	}
}

func TestHandler_Connect_AuthenticationFailed(t *testing.T) {
	reg := &mockRegistry{err: errors.NewAuthenticationFailedError("Authentication failed: Invalid credentials")}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodPost, "/integrations/connect", ConnectRequest{
		Provider: "hr_system",
		APIURL:   "https://hr.example.com",
		Email:    "ops@example.com",
		Password: "wrong",
	})
	testutil.SetAuthContext(c, 7)

	handler.Connect(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "authentication_failed", resp.Error.Type)
}

// =====================================================================
// Provider-scoped operations
// =====================================================================

func TestHandler_Disconnect(t *testing.T) {
	reg := &mockRegistry{}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodDelete, "/integrations/hr_system", nil)
	testutil.SetAuthContext(c, 7)
	testutil.SetURLParam(c, "provider", "hr_system")

	handler.Disconnect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ProviderHRSystem, reg.provider)
}

func TestHandler_UnknownProvider(t *testing.T) {
	reg := &mockRegistry{}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodPost, "/integrations/crm/test", nil)
	testutil.SetAuthContext(c, 7)
	testutil.SetURLParam(c, "provider", "crm")

	handler.Test(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, reg.calls)
}

func TestHandler_Test(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reg := &mockRegistry{test: &dto.ConnectionTestResult{Success: true, User: map[string]any{"name": "Ops"}}}
		handler := newTestHandler(reg)
		c, w := testutil.NewTestContext(http.MethodPost, "/integrations/hr_system/test", nil)
		testutil.SetAuthContext(c, 7)
		testutil.SetURLParam(c, "provider", "hr_system")

		handler.Test(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Ops"`)
	})

	t.Run("not connected", func(t *testing.T) {
		reg := &mockRegistry{err: errors.NewNotConnectedError("No token found. Please reconnect.")}
		handler := newTestHandler(reg)
		c, w := testutil.NewTestContext(http.MethodPost, "/integrations/hr_system/test", nil)
		testutil.SetAuthContext(c, 7)
		testutil.SetURLParam(c, "provider", "hr_system")

		handler.Test(c)

		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	})
}

func TestHandler_Reauthenticate(t *testing.T) {
	reg := &mockRegistry{result: sampleIntegration()}
	handler := newTestHandler(reg)
	c, w := testutil.NewTestContext(http.MethodPost, "/integrations/hr_system/reauthenticate", ReauthenticateRequest{Password: "secret"})
	testutil.SetAuthContext(c, 7)
	testutil.SetURLParam(c, "provider", "hr_system")

	handler.Reauthenticate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", reg.password)
}

func TestHandler_UpdateSyncSettings(t *testing.T) {
	reg := &mockRegistry{result: sampleIntegration()}
	handler := newTestHandler(reg)
	off := false
	c, w := testutil.NewTestContext(http.MethodPut, "/integrations/hr_system/sync-settings", dto.SyncSettingsRequest{
		AutoSyncEnabled: &off,
		SyncTime:        "02:30",
	})
	testutil.SetAuthContext(c, 7)
	testutil.SetURLParam(c, "provider", "hr_system")

	handler.UpdateSyncSettings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, reg.settingsCmd.Settings.AutoSyncEnabled)
	assert.False(t, *reg.settingsCmd.Settings.AutoSyncEnabled)
	assert.Equal(t, "02:30", reg.settingsCmd.Settings.SyncTime)
	assert.Equal(t, domain.ProviderHRSystem, reg.settingsCmd.Provider)
}
