package models

import (
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
)

// ExternalAPITokenModel stores the encrypted default-API token of a user.
type ExternalAPITokenModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"column:user_id;not null;index:idx_external_api_tokens_user"`
	AccessToken string    `gorm:"column:access_token;type:text;not null"`
	ExpiredAt   time.Time `gorm:"column:expired_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExternalAPITokenModel) TableName() string {
	return constants.TableExternalAPITokens
}
