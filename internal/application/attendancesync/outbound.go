package attendancesync

import (
	"context"
	"errors"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/common"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

// ListEmployees returns the HR employees visible to the user's integration.
func (e *Engine) ListEmployees(ctx context.Context, userID uint) ([]map[string]any, error) {
	client, err := e.integrations.GetConfiguredClient(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	employees, err := client.FetchEmployees(ctx)
	if err != nil {
		return nil, common.ClassifyExternalError(err)
	}
	return employees, nil
}

// PushRecord sends the local row of (employeeID, date) back to the HR system.
func (e *Engine) PushRecord(ctx context.Context, userID uint, employeeID string, date time.Time) (map[string]any, error) {
	rec, err := e.records.FindByKey(ctx, employeeID, biztime.CalendarDate(date))
	if errors.Is(err, attendance.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("attendance record not found")
	}
	if err != nil {
		return nil, err
	}

	client, err := e.integrations.GetConfiguredClient(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	out, err := client.PushAttendance(ctx, rec.ToExternal())
	if err != nil {
		return nil, common.ClassifyExternalError(err)
	}

	e.logger.Infow("attendance record pushed",
		"user_id", userID,
		"employee_id", employeeID,
		"date", biztime.FormatDate(rec.Date),
	)
	return out, nil
}
