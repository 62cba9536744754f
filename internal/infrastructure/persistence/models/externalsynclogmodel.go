package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
)

// ExternalSyncLogModel is the GORM model for external_sync_logs table
type ExternalSyncLogModel struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	SID          string         `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	UserID       *uint          `gorm:"column:user_id;index"`
	SyncType     string         `gorm:"column:sync_type;type:varchar(20);not null"`
	Entity       string         `gorm:"column:entity;type:varchar(50);not null;index:idx_sync_logs_entity_status_created,priority:1"`
	SyncDateFrom time.Time      `gorm:"column:sync_date_from;type:date;not null"`
	SyncDateTo   time.Time      `gorm:"column:sync_date_to;type:date;not null"`
	Status       string         `gorm:"column:status;type:varchar(20);not null;index:idx_sync_logs_entity_status_created,priority:2"`
	Stats        datatypes.JSON `gorm:"column:stats"`
	ErrorMessage *string        `gorm:"column:error_message;type:text"`
	StartedAt    time.Time      `gorm:"column:started_at;not null"`
	CompletedAt  *time.Time     `gorm:"column:completed_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_sync_logs_entity_status_created,priority:3"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExternalSyncLogModel) TableName() string {
	return constants.TableExternalSyncLogs
}
