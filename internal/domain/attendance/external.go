package attendance

import "log/slog"

// ExternalRecord is the canonical shape of one attendance item returned by
// the HR API. The remote schema is not guaranteed, so every field that may be
// absent is a pointer.
type ExternalRecord struct {
	ID           *string `json:"id"`
	EmployeeID   *string `json:"employee_id"`
	EmployeeName *string `json:"employee_name"`
	Date         *string `json:"date"`
	Status       *string `json:"status"`
	CheckIn      *string `json:"check_in"`
	CheckOut     *string `json:"check_out"`
	Hours        float64 `json:"hours"`
	Overtime     float64 `json:"overtime"`
}

// HasKey reports whether both natural-key fields are present and non-empty.
func (r ExternalRecord) HasKey() bool {
	return r.EmployeeID != nil && *r.EmployeeID != "" && r.Date != nil && *r.Date != ""
}

// LogValue renders the record by value for diagnostics; absent fields are
// left out.
func (r ExternalRecord) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 9)
	for _, f := range []struct {
		key string
		val *string
	}{
		{"id", r.ID},
		{"employee_id", r.EmployeeID},
		{"employee_name", r.EmployeeName},
		{"date", r.Date},
		{"status", r.Status},
		{"check_in", r.CheckIn},
		{"check_out", r.CheckOut},
	} {
		if f.val != nil {
			attrs = append(attrs, slog.String(f.key, *f.val))
		}
	}
	attrs = append(attrs, slog.Float64("hours", r.Hours), slog.Float64("overtime", r.Overtime))
	return slog.GroupValue(attrs...)
}

// ToExternal renders a local row in the HR wire shape.
func (r *Record) ToExternal() ExternalRecord {
	employeeID := r.EmployeeID
	date := r.Date.Format("2006-01-02")
	status := string(r.Status)
	return ExternalRecord{
		ID:         r.ExternalID,
		EmployeeID: &employeeID,
		Date:       &date,
		Status:     &status,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Hours:      r.Hours,
		Overtime:   r.Overtime,
	}
}
