package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/mappers"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// SyncLogRepository implements synclog.Repository
type SyncLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.SyncLogMapper
}

func NewSyncLogRepository(db *gorm.DB, logger logger.Interface) synclog.Repository {
	return &SyncLogRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewSyncLogMapper(),
	}
}

func (r *SyncLogRepository) Create(ctx context.Context, e *synclog.Entry) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create sync log", "sid", e.SID(), "error", err)
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	e.SetID(model.ID)
	return nil
}

// Update writes the terminal state. The row must still be processing, so a
// second finalization is rejected by storage as well as by the entity.
func (r *SyncLogRepository) Update(ctx context.Context, e *synclog.Entry) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ExternalSyncLogModel{}).
		Where("id = ? AND status = ?", e.ID(), synclog.StatusProcessing).
		Updates(map[string]any{
			"status":        model.Status,
			"stats":         model.Stats,
			"error_message": model.ErrorMessage,
			"completed_at":  model.CompletedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update sync log", "id", e.ID(), "error", result.Error)
		return fmt.Errorf("failed to update sync log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return synclog.ErrAlreadyFinalized
	}
	return nil
}

func (r *SyncLogRepository) FindLatestCompleted(ctx context.Context, f synclog.Filter) (*synclog.Entry, error) {
	var model models.ExternalSyncLogModel

	err := r.scoped(ctx, f).
		Where("status = ?", synclog.StatusCompleted).
		Order("completed_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, synclog.ErrNotFound
		}
		r.logger.Errorw("failed to find latest completed sync", "error", err)
		return nil, fmt.Errorf("failed to find latest completed sync: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SyncLogRepository) ExistsProcessing(ctx context.Context, f synclog.Filter) (bool, error) {
	var count int64

	err := r.scoped(ctx, f).
		Where("status = ?", synclog.StatusProcessing).
		Limit(1).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check processing sync", "error", err)
		return false, fmt.Errorf("failed to check processing sync: %w", err)
	}
	return count > 0, nil
}

func (r *SyncLogRepository) ListRecent(ctx context.Context, f synclog.Filter, limit int) ([]*synclog.Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	var list []*models.ExternalSyncLogModel
	err := r.scoped(ctx, f).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list recent syncs", "error", err)
		return nil, fmt.Errorf("failed to list recent syncs: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *SyncLogRepository) ListStartedBetween(ctx context.Context, f synclog.Filter, from, to time.Time) ([]*synclog.Entry, error) {
	var list []*models.ExternalSyncLogModel

	err := r.scoped(ctx, f).
		Where("started_at BETWEEN ? AND ?", from.UTC(), to.UTC()).
		Order("started_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list syncs in window", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to list syncs in window: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *SyncLogRepository) scoped(ctx context.Context, f synclog.Filter) *gorm.DB {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.ExternalSyncLogModel{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	return q
}
