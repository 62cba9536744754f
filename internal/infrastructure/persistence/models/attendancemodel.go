package models

import (
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
)

// AttendanceModel is the GORM model for attendances table
type AttendanceModel struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	EmployeeID string     `gorm:"column:employee_id;type:varchar(64);not null;uniqueIndex:uk_attendance_employee_date,priority:1"`
	Date       time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:uk_attendance_employee_date,priority:2;index:idx_attendance_date_status,priority:1"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:'Present';index:idx_attendance_date_status,priority:2"`
	CheckIn    *string    `gorm:"column:check_in;type:varchar(8)"`
	CheckOut   *string    `gorm:"column:check_out;type:varchar(8)"`
	Hours      float64    `gorm:"column:hours;type:decimal(5,2);not null;default:0"`
	Overtime   float64    `gorm:"column:overtime;type:decimal(5,2);not null;default:0"`
	Source     string     `gorm:"column:source;type:varchar(20);not null;default:'manual'"`
	SyncedAt   *time.Time `gorm:"column:synced_at"`
	ExternalID *string    `gorm:"column:external_id;type:varchar(64)"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AttendanceModel) TableName() string {
	return constants.TableAttendances
}
