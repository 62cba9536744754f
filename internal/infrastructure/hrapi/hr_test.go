package hrapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		want    string
		wantMsg string
	}{
		{name: "token returned", status: 200, body: map[string]any{"token": "abc"}, want: "abc"},
		{name: "missing token", status: 200, body: map[string]any{}, wantMsg: "Token not found in login response"},
		{name: "missing token with message", status: 200, body: map[string]any{"message": "Account locked"}, wantMsg: "Account locked"},
		{name: "rejected", status: 401, body: map[string]any{"message": "Invalid credentials"}, wantMsg: "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/login", r.URL.Path)
				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "ops@example.com", req["email"])
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			token, err := newTestClient(srv.URL, 1).Login(context.Background(), "ops@example.com", "pw")
			if tt.wantMsg != "" {
				var authErr *AuthenticationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, tt.wantMsg, authErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestProfile_MissingUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Profile(context.Background())
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "User data not found in response.", respErr.Message)
}

func TestFetchAttendance(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	items := []map[string]any{
		{"id": 9007199254740993, "employee_id": 17, "employee_name": "Ana", "date": "2025-03-01",
			"status": "late", "check_in": "09:10", "check_out": nil, "hours": "7.5"},
		{"employee_id": "E2", "date": "2025-03-02", "overtime": 1.25},
	}

	for name, payload := range map[string]any{
		"bare array": items,
		"data field": map[string]any{"data": items},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/check-attendance", r.URL.Path)
				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "2025-03-01", req["start_date"])
				assert.Equal(t, "2025-03-02", req["end_date"])
				writeJSON(w, http.StatusOK, payload)
			}))
			defer srv.Close()

			recs, err := newTestClient(srv.URL, 1).WithToken("t").FetchAttendance(context.Background(), from, to)
			require.NoError(t, err)
			require.Len(t, recs, 2)

			first := recs[0]
			require.NotNil(t, first.ID)
			assert.Equal(t, "9007199254740993", *first.ID)
			assert.Equal(t, "17", *first.EmployeeID)
			assert.Equal(t, "late", *first.Status)
			assert.Nil(t, first.CheckOut)
			assert.InDelta(t, 7.5, first.Hours, 0.0001)
			assert.Zero(t, first.Overtime)

			second := recs[1]
			assert.Nil(t, second.ID)
			assert.Nil(t, second.Status)
			assert.Zero(t, second.Hours)
			assert.InDelta(t, 1.25, second.Overtime, 0.0001)
			assert.True(t, second.HasKey())
		})
	}
}

func TestFetchAttendance_BadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "nope")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).FetchAttendance(context.Background(), time.Now(), time.Now())
	var respErr *ResponseError
	assert.ErrorAs(t, err, &respErr)
}

func TestFetchEmployeesAndPush(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/employees":
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"id": 1}, {"id": 2}}})
		case "/attendance/sync":
			var rec attendance.ExternalRecord
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
			writeJSON(w, http.StatusOK, map[string]any{"synced": *rec.EmployeeID})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1).WithToken("t")

	emps, err := c.FetchEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, emps, 2)

	emp := "E1"
	out, err := c.PushAttendance(context.Background(), attendance.ExternalRecord{EmployeeID: &emp})
	require.NoError(t, err)
	assert.Equal(t, "E1", out["synced"])
}
