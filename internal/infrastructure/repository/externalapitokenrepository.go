package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/externaltoken"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// ExternalAPITokenRepository implements externaltoken.Repository
type ExternalAPITokenRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewExternalAPITokenRepository(db *gorm.DB, logger logger.Interface) externaltoken.Repository {
	return &ExternalAPITokenRepository{db: db, logger: logger}
}

func (r *ExternalAPITokenRepository) Create(ctx context.Context, t *externaltoken.Token) error {
	model := &models.ExternalAPITokenModel{
		UserID:      t.UserID(),
		AccessToken: t.EncryptedToken(),
		ExpiredAt:   t.ExpiresAt(),
		CreatedAt:   t.CreatedAt(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create external api token", "user_id", t.UserID(), "error", err)
		return fmt.Errorf("failed to create external api token: %w", err)
	}

	t.SetID(model.ID)
	return nil
}

func (r *ExternalAPITokenRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&models.ExternalAPITokenModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete external api tokens", "user_id", userID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete external api tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ExternalAPITokenRepository) FindLatestValid(ctx context.Context, userID uint, now time.Time) (*externaltoken.Token, error) {
	var model models.ExternalAPITokenModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND expired_at > ?", userID, now.UTC()).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, externaltoken.ErrNotFound
		}
		r.logger.Errorw("failed to find external api token", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to find external api token: %w", err)
	}

	return externaltoken.ReconstructToken(model.ID, model.UserID, model.AccessToken, model.ExpiredAt.UTC(), model.CreatedAt), nil
}
