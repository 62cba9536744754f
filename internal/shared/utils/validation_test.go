package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

type sample struct {
	Email    string   `json:"email" validate:"required,email"`
	SyncTime string   `json:"sync_time" validate:"omitempty,hhmm"`
	Date     string   `json:"date" validate:"omitempty,ymd"`
	Entities []string `json:"entities" validate:"omitempty,dive,oneof=attendance employees payroll"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		in          sample
		wantErr     bool
		wantMessage string
	}{
		{name: "valid", in: sample{Email: "a@b.co", SyncTime: "01:30", Date: "2025-01-02", Entities: []string{"attendance"}}},
		{name: "missing email", in: sample{}, wantErr: true, wantMessage: "email is required"},
		{name: "bad time", in: sample{Email: "a@b.co", SyncTime: "25:00"}, wantErr: true, wantMessage: "sync_time must be a time in HH:MM format"},
		{name: "bad date", in: sample{Email: "a@b.co", Date: "2025/01/02"}, wantErr: true, wantMessage: "date must be a date in YYYY-MM-DD format"},
		{name: "unknown entity", in: sample{Email: "a@b.co", Entities: []string{"invoices"}}, wantErr: true, wantMessage: "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, errors.GetAppError(err).Details, tt.wantMessage)
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "u***@example.com", MaskEmail("user@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
}
