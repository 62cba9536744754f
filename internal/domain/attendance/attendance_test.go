package attendance

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "", want: StatusPresent},
		{in: "present", want: StatusPresent},
		{in: "LATE", want: StatusLate},
		{in: "Remote", want: StatusRemote},
		{in: "Sick", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExternalRecord_HasKey(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.True(t, ExternalRecord{EmployeeID: s("E1"), Date: s("2025-01-01")}.HasKey())
	assert.False(t, ExternalRecord{Date: s("2025-01-01")}.HasKey())
	assert.False(t, ExternalRecord{EmployeeID: s(""), Date: s("2025-01-01")}.HasKey())
	assert.False(t, ExternalRecord{EmployeeID: s("E1")}.HasKey())
}

func TestExternalRecord_LogValue(t *testing.T) {
	s := func(v string) *string { return &v }
	rec := ExternalRecord{EmployeeID: s("E1"), Date: s("2025-13-40"), Status: s("Sick"), Hours: 7.5}

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Warn("attendance record failed", "record", rec)

	out := buf.String()
	assert.Contains(t, out, "record.employee_id=E1")
	assert.Contains(t, out, "record.date=2025-13-40")
	assert.Contains(t, out, "record.status=Sick")
	assert.Contains(t, out, "record.hours=7.5")
	assert.NotContains(t, out, "record.check_in")
	assert.NotContains(t, out, "0xc")
}

func TestRecord_ToExternal(t *testing.T) {
	in := "08:00"
	ext := "hr-9"
	rec := &Record{
		EmployeeID: "E1",
		Date:       time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Status:     StatusLate,
		CheckIn:    &in,
		Hours:      7,
		ExternalID: &ext,
	}

	out := rec.ToExternal()
	assert.Equal(t, "E1", *out.EmployeeID)
	assert.Equal(t, "2025-01-02", *out.Date)
	assert.Equal(t, "Late", *out.Status)
	assert.Equal(t, "08:00", *out.CheckIn)
	assert.Nil(t, out.CheckOut)
	assert.Equal(t, "hr-9", *out.ID)
	assert.True(t, out.HasKey())
}
