package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/mappers"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// IntegrationRepository implements integration.Repository
type IntegrationRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.IntegrationMapper
}

func NewIntegrationRepository(db *gorm.DB, logger logger.Interface) integration.Repository {
	return &IntegrationRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewIntegrationMapper(),
	}
}

func (r *IntegrationRepository) GetByUserAndProvider(ctx context.Context, userID uint, provider integration.Provider) (*integration.Integration, error) {
	var model models.ExternalIntegrationModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND provider = ?", userID, provider.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrNotFound
		}
		r.logger.Errorw("failed to get integration", "user_id", userID, "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Save inserts or updates. An insert that races another insert for the same
// (user, provider) turns into an update of the existing row.
func (r *IntegrationRepository) Save(ctx context.Context, i *integration.Integration) error {
	model, err := r.mapper.ToModel(i)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)

	if model.ID != 0 {
		if err := tx.Save(model).Error; err != nil {
			r.logger.Errorw("failed to update integration", "id", model.ID, "error", err)
			return fmt.Errorf("failed to update integration: %w", err)
		}
		return nil
	}

	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "status", "api_url", "email", "access_token", "token_expires_at",
			"last_synced_at", "sync_settings", "metadata", "error_message", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert integration", "user_id", model.UserID, "provider", model.Provider, "error", err)
		return fmt.Errorf("failed to upsert integration: %w", err)
	}

	var stored models.ExternalIntegrationModel
	if err := tx.Select("id").Where("user_id = ? AND provider = ?", model.UserID, model.Provider).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload integration id: %w", err)
	}
	i.SetID(stored.ID)

	return nil
}

func (r *IntegrationRepository) ListByUser(ctx context.Context, userID uint) ([]*integration.Integration, error) {
	var list []*models.ExternalIntegrationModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("provider ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list integrations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *IntegrationRepository) ListConnected(ctx context.Context, provider integration.Provider) ([]*integration.Integration, error) {
	var list []*models.ExternalIntegrationModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND provider = ?", integration.StatusConnected.String(), provider.String()).
		Order("user_id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list connected integrations", "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to list connected integrations: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *IntegrationRepository) CountByStatus(ctx context.Context, userID uint) (map[integration.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ExternalIntegrationModel{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to count integrations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to count integrations: %w", err)
	}

	out := make(map[integration.Status]int64, len(rows))
	for _, row := range rows {
		out[integration.Status(row.Status)] = row.Count
	}
	return out, nil
}
