package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// AttendanceRepository implements attendance.Repository
type AttendanceRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAttendanceRepository(db *gorm.DB, logger logger.Interface) attendance.Repository {
	return &AttendanceRepository{db: db, logger: logger}
}

// UpsertByKey inserts the (employee, date) row or, when the natural key is
// already taken, updates it in place. The insert is conflict-tolerant at the
// storage layer so concurrent syncs writing the same key never fail on the
// unique index. It runs inside its own savepoint when the caller holds a
// transaction, so a failed record rolls back alone.
func (r *AttendanceRepository) UpsertByKey(ctx context.Context, employeeID string, date time.Time, f attendance.Fields) (bool, error) {
	var created bool

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		syncedAt := f.SyncedAt.UTC()
		model := &models.AttendanceModel{
			EmployeeID: employeeID,
			Date:       date,
			Status:     string(f.Status),
			CheckIn:    f.CheckIn,
			CheckOut:   f.CheckOut,
			Hours:      f.Hours,
			Overtime:   f.Overtime,
			Source:     string(f.Source),
			SyncedAt:   &syncedAt,
			ExternalID: f.ExternalID,
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			created = true
			return nil
		}

		return tx.Model(&models.AttendanceModel{}).
			Where("employee_id = ? AND date = ?", employeeID, date).
			Updates(map[string]any{
				"status":      string(f.Status),
				"check_in":    f.CheckIn,
				"check_out":   f.CheckOut,
				"hours":       f.Hours,
				"overtime":    f.Overtime,
				"source":      string(f.Source),
				"synced_at":   syncedAt,
				"external_id": f.ExternalID,
			}).Error
	})
	if err != nil {
		if txBroken(ctx, err) {
			return false, fmt.Errorf("%w: %v", apperrors.ErrTransactionAborted, err)
		}
		r.logger.Warnw("attendance upsert failed", "employee_id", employeeID, "date", date, "error", err)
		return false, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return created, nil
}

func (r *AttendanceRepository) FindByKey(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	var model models.AttendanceModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("employee_id = ? AND date = ?", employeeID, date).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}

	return &attendance.Record{
		ID:         model.ID,
		EmployeeID: model.EmployeeID,
		Date:       model.Date.UTC(),
		Status:     attendance.Status(model.Status),
		CheckIn:    model.CheckIn,
		CheckOut:   model.CheckOut,
		Hours:      model.Hours,
		Overtime:   model.Overtime,
		Source:     attendance.Source(model.Source),
		SyncedAt:   model.SyncedAt,
		ExternalID: model.ExternalID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}

func (r *AttendanceRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AttendanceModel{}).
		Where("date BETWEEN ? AND ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// txBroken reports errors after which the surrounding transaction cannot
// continue with the next record.
func txBroken(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn)
}
