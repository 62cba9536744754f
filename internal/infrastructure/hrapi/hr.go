package hrapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
)

const (
	pathLogin          = "/login"
	pathProfile        = "/user/profile"
	pathAttendance     = "check-attendance"
	pathEmployees      = "employees"
	pathAttendanceSync = "attendance/sync"

	msgTokenNotFound = "Token not found in login response"
	msgUserNotFound  = "User data not found in response."
)

// Login exchanges credentials for an access token. Rejections surface as
// *AuthenticationError.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var body map[string]any
	err := c.Post(ctx, pathLogin, map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return "", &AuthenticationError{Message: apiErr.Message}
		}
		return "", err
	}

	if token, ok := body["token"].(string); ok && token != "" {
		return token, nil
	}

	msg := msgTokenNotFound
	if s, ok := body["message"].(string); ok && s != "" {
		msg = s
	}
	return "", &AuthenticationError{Message: msg}
}

// Profile returns the "user" object of the token owner.
func (c *Client) Profile(ctx context.Context) (map[string]any, error) {
	var body struct {
		User map[string]any `json:"user"`
	}
	if err := c.Get(ctx, pathProfile, nil, &body); err != nil {
		return nil, err
	}
	if len(body.User) == 0 {
		return nil, &ResponseError{Message: msgUserNotFound}
	}
	return body.User, nil
}

// FetchAttendance lists attendance items dated within [from, to]. Items are
// returned in API order.
func (c *Client) FetchAttendance(ctx context.Context, from, to time.Time) ([]attendance.ExternalRecord, error) {
	var raw json.RawMessage
	err := c.Post(ctx, pathAttendance, map[string]string{
		"start_date": biztime.FormatDate(from),
		"end_date":   biztime.FormatDate(to),
	}, &raw)
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, err
	}

	out := make([]attendance.ExternalRecord, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeAttendance(item))
	}
	return out, nil
}

// FetchEmployees lists the employees visible to the token.
func (c *Client) FetchEmployees(ctx context.Context) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, pathEmployees, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList(raw)
}

// PushAttendance sends one local record to the HR system.
func (c *Client) PushAttendance(ctx context.Context, rec attendance.ExternalRecord) (map[string]any, error) {
	var out map[string]any
	if err := c.Post(ctx, pathAttendanceSync, rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// unwrapList accepts a bare JSON array or an object holding it under "data".
func unwrapList(raw json.RawMessage) ([]map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []map[string]any
	if err := decode(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := decode(raw, &wrapped); err != nil {
		return nil, &ResponseError{Message: "unexpected response shape: " + err.Error()}
	}
	return wrapped.Data, nil
}

func normalizeAttendance(item map[string]any) attendance.ExternalRecord {
	return attendance.ExternalRecord{
		ID:           stringField(item["id"]),
		EmployeeID:   stringField(item["employee_id"]),
		EmployeeName: stringField(item["employee_name"]),
		Date:         stringField(item["date"]),
		Status:       stringField(item["status"]),
		CheckIn:      stringField(item["check_in"]),
		CheckOut:     stringField(item["check_out"]),
		Hours:        floatField(item["hours"]),
		Overtime:     floatField(item["overtime"]),
	}
}

func stringField(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func floatField(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
