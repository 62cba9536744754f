package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
)

// ExternalIntegrationModel is the GORM model for external_integrations table.
// AccessToken holds ciphertext only.
type ExternalIntegrationModel struct {
	ID             uint           `gorm:"primaryKey;autoIncrement"`
	SID            string         `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	UserID         uint           `gorm:"column:user_id;not null;uniqueIndex:uk_integration_user_provider,priority:1"`
	Provider       string         `gorm:"column:provider;type:varchar(50);not null;uniqueIndex:uk_integration_user_provider,priority:2;index:idx_integration_status_provider,priority:2"`
	Name           string         `gorm:"column:name;type:varchar(255);not null"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:'disconnected';index:idx_integration_status_provider,priority:1"`
	APIURL         string         `gorm:"column:api_url;type:varchar(500);not null"`
	Email          string         `gorm:"column:email;type:varchar(255)"`
	AccessToken    *string        `gorm:"column:access_token;type:text"`
	TokenExpiresAt *time.Time     `gorm:"column:token_expires_at"`
	LastSyncedAt   *time.Time     `gorm:"column:last_synced_at"`
	SyncSettings   datatypes.JSON `gorm:"column:sync_settings"`
	Metadata       datatypes.JSON `gorm:"column:metadata"`
	ErrorMessage   *string        `gorm:"column:error_message;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExternalIntegrationModel) TableName() string {
	return constants.TableExternalIntegrations
}
