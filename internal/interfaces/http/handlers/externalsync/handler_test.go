package externalsync

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http/handlers/testutil"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

// =====================================================================
// Mock services
// =====================================================================

type mockSyncService struct {
	result *dto.SyncResult
	status *dto.SyncStatus
	stats  *dto.SyncStatistics
	err    error

	gotUser     uint
	gotUserPtr  *uint
	gotFrom     time.Time
	gotTo       time.Time
	yesterdayed bool
}

func (m *mockSyncService) SyncDateRange(_ context.Context, userID uint, from, to time.Time) (*dto.SyncResult, error) {
	m.gotUser, m.gotFrom, m.gotTo = userID, from, to
	return m.result, m.err
}

func (m *mockSyncService) SyncYesterday(_ context.Context, userID uint) (*dto.SyncResult, error) {
	m.gotUser, m.yesterdayed = userID, true
	return m.result, m.err
}

func (m *mockSyncService) GetSyncStatus(_ context.Context, userID *uint) (*dto.SyncStatus, error) {
	m.gotUserPtr = userID
	return m.status, m.err
}

func (m *mockSyncService) GetSyncStatistics(_ context.Context, from, to time.Time, userID *uint) (*dto.SyncStatistics, error) {
	m.gotFrom, m.gotTo, m.gotUserPtr = from, to, userID
	return m.stats, m.err
}

type mockTokenService struct {
	err      error
	loggedIn bool
	revoked  uint
}

func (m *mockTokenService) LoginAndSaveToken(_ context.Context, _ uint, _, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.loggedIn = true
	return "tok", nil
}

func (m *mockTokenService) RevokeToken(_ context.Context, userID uint) error {
	m.revoked = userID
	return m.err
}

func newTestHandler(sync *mockSyncService, tokens *mockTokenService) *Handler {
	if sync == nil {
		sync = &mockSyncService{}
	}
	if tokens == nil {
		tokens = &mockTokenService{}
	}
	return NewHandler(sync, tokens, testutil.NewMockLogger())
}

func sampleResult() *dto.SyncResult {
	return &dto.SyncResult{
		SyncLogID: "sync_abc",
		Type:      string(synclog.TypeManual),
		DateFrom:  "2025-01-01",
		DateTo:    "2025-01-31",
		Stats:     synclog.Stats{Total: 3, Created: 3},
	}
}

// =====================================================================
// SyncRange
// =====================================================================

func TestHandler_SyncRange_Success(t *testing.T) {
	svc := &mockSyncService{result: sampleResult()}
	handler := newTestHandler(svc, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/external/sync", SyncRangeRequest{
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})
	testutil.SetAuthContext(c, 7)

	handler.SyncRange(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), `"sync_log_id":"sync_abc"`)

	assert.Equal(t, uint(7), svc.gotUser)
	assert.Equal(t, "2025-01-01", biztime.FormatDate(svc.gotFrom))
	assert.Equal(t, "2025-01-31", biztime.FormatDate(svc.gotTo))
}

func TestHandler_SyncRange_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "missing end date", body: map[string]string{"start_date": "2025-01-01"}},
		{name: "bad date format", body: SyncRangeRequest{StartDate: "01/01/2025", EndDate: "2025-01-31"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSyncService{}
			handler := newTestHandler(svc, nil)
			c, w := testutil.NewTestContext(http.MethodPost, "/external/sync", tt.body)
			testutil.SetAuthContext(c, 7)

			handler.SyncRange(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, svc.gotUser, "service must not be called")
		})
	}
}

func TestHandler_SyncRange_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{
			name:     "range too long",
			err:      errors.NewValidationError("Date range must not exceed 90 days"),
			wantCode: http.StatusBadRequest,
			wantType: "validation_error",
		},
		{
			name:     "no integration",
			err:      errors.NewNoActiveIntegrationError("No active HR system integration found. Please connect first."),
			wantCode: http.StatusPreconditionFailed,
			wantType: "no_active_integration",
		},
		{
			name:     "sync running",
			err:      errors.NewSyncInProgressError("A sync is already running for this integration"),
			wantCode: http.StatusConflict,
			wantType: "sync_in_progress",
		},
		{
			name:     "unclassified",
			err:      context.Canceled,
			wantCode: http.StatusInternalServerError,
			wantType: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&mockSyncService{err: tt.err}, nil)
			c, w := testutil.NewTestContext(http.MethodPost, "/external/sync", SyncRangeRequest{
				StartDate: "2025-01-01",
				EndDate:   "2025-01-02",
			})
			testutil.SetAuthContext(c, 7)

			handler.SyncRange(c)

			assert.Equal(t, tt.wantCode, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}

func TestHandler_SyncRange_Unauthenticated(t *testing.T) {
	handler := newTestHandler(nil, nil)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/sync", SyncRangeRequest{
		StartDate: "2025-01-01",
		EndDate:   "2025-01-02",
	})

	handler.SyncRange(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// =====================================================================
// SyncYesterday, Status, Statistics
// =====================================================================

func TestHandler_SyncYesterday(t *testing.T) {
	svc := &mockSyncService{result: sampleResult()}
	handler := newTestHandler(svc, nil)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/sync/yesterday", nil)
	testutil.SetAuthContext(c, 9)

	handler.SyncYesterday(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.yesterdayed)
	assert.Equal(t, uint(9), svc.gotUser)
}

func TestHandler_Status_ScopedToCaller(t *testing.T) {
	svc := &mockSyncService{status: &dto.SyncStatus{HasToken: true}}
	handler := newTestHandler(svc, nil)
	c, w := testutil.NewTestContext(http.MethodGet, "/external/sync/status", nil)
	testutil.SetAuthContext(c, 9)

	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotUserPtr)
	assert.Equal(t, uint(9), *svc.gotUserPtr)
	assert.Contains(t, w.Body.String(), `"has_token":true`)
}

func TestHandler_Statistics(t *testing.T) {
	require.NoError(t, biztime.Init("Asia/Jakarta"))

	t.Run("explicit bounds cover whole business days", func(t *testing.T) {
		svc := &mockSyncService{stats: &dto.SyncStatistics{From: "2025-01-01", To: "2025-01-31"}}
		handler := newTestHandler(svc, nil)
		c, w := testutil.NewTestContext(http.MethodGet, "/external/sync/statistics", nil)
		testutil.SetQueryParams(c, map[string]string{"from": "2025-01-01", "to": "2025-01-31"})
		testutil.SetAuthContext(c, 9)

		handler.Statistics(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2024, 12, 31, 17, 0, 0, 0, time.UTC), svc.gotFrom.UTC())
		assert.Equal(t, "2025-01-31", biztime.FormatDate(biztime.DateOf(svc.gotTo)))
	})

	t.Run("defaults to the last month", func(t *testing.T) {
		now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
		restore := biztime.SetNowFunc(func() time.Time { return now })
		defer restore()

		svc := &mockSyncService{stats: &dto.SyncStatistics{}}
		handler := newTestHandler(svc, nil)
		c, _ := testutil.NewTestContext(http.MethodGet, "/external/sync/statistics", nil)
		testutil.SetAuthContext(c, 9)

		handler.Statistics(c)

		assert.Equal(t, now.AddDate(0, -1, 0), svc.gotFrom)
		assert.Equal(t, now, svc.gotTo)
	})

	t.Run("bad date", func(t *testing.T) {
		handler := newTestHandler(nil, nil)
		c, w := testutil.NewTestContext(http.MethodGet, "/external/sync/statistics", nil)
		testutil.SetQueryParams(c, map[string]string{"from": "yesterday"})
		testutil.SetAuthContext(c, 9)

		handler.Statistics(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// Login / Logout
// =====================================================================

func TestHandler_Login(t *testing.T) {
	tokens := &mockTokenService{}
	handler := newTestHandler(nil, tokens)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/login", LoginRequest{
		Email:    "ops@example.com",
		Password: "secret",
	})
	testutil.SetAuthContext(c, 3)

	handler.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, tokens.loggedIn)
	assert.NotContains(t, w.Body.String(), "tok", "token must not be returned")
}

func TestHandler_Login_Rejected(t *testing.T) {
	tokens := &mockTokenService{err: &hrapi.AuthenticationError{Message: "Invalid credentials"}}
	handler := newTestHandler(nil, tokens)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/login", LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})
	testutil.SetAuthContext(c, 3)

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Authentication failed: Invalid credentials", resp.Error.Message)
}

func TestHandler_Login_InvalidEmail(t *testing.T) {
	handler := newTestHandler(nil, nil)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/login", LoginRequest{
		Email:    "not-an-email",
		Password: "secret",
	})
	testutil.SetAuthContext(c, 3)

	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	tokens := &mockTokenService{}
	handler := newTestHandler(nil, tokens)
	c, w := testutil.NewTestContext(http.MethodPost, "/external/logout", nil)
	testutil.SetAuthContext(c, 3)

	handler.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), tokens.revoked)
}
