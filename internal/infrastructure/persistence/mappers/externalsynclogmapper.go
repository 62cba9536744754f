package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
)

type SyncLogMapper interface {
	ToEntity(model *models.ExternalSyncLogModel) (*synclog.Entry, error)
	ToModel(entity *synclog.Entry) (*models.ExternalSyncLogModel, error)
	ToEntities(models []*models.ExternalSyncLogModel) ([]*synclog.Entry, error)
}

type SyncLogMapperImpl struct{}

func NewSyncLogMapper() SyncLogMapper {
	return &SyncLogMapperImpl{}
}

func (m *SyncLogMapperImpl) ToEntity(model *models.ExternalSyncLogModel) (*synclog.Entry, error) {
	if model == nil {
		return nil, nil
	}

	var stats *synclog.Stats
	if len(model.Stats) > 0 && string(model.Stats) != "null" {
		stats = &synclog.Stats{}
		if err := json.Unmarshal(model.Stats, stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
	}

	return synclog.ReconstructEntry(
		model.ID,
		model.SID,
		model.UserID,
		synclog.Type(model.SyncType),
		model.Entity,
		model.SyncDateFrom,
		model.SyncDateTo,
		synclog.Status(model.Status),
		stats,
		deref(model.ErrorMessage),
		model.StartedAt,
		model.CompletedAt,
	), nil
}

func (m *SyncLogMapperImpl) ToModel(entity *synclog.Entry) (*models.ExternalSyncLogModel, error) {
	if entity == nil {
		return nil, nil
	}

	var statsJSON datatypes.JSON
	if st := entity.Stats(); st != nil {
		b, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}
		statsJSON = b
	}

	return &models.ExternalSyncLogModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		UserID:       entity.UserID(),
		SyncType:     string(entity.Type()),
		Entity:       entity.Entity(),
		SyncDateFrom: entity.DateFrom(),
		SyncDateTo:   entity.DateTo(),
		Status:       string(entity.Status()),
		Stats:        statsJSON,
		ErrorMessage: ptrOrNil(entity.ErrorMessage()),
		StartedAt:    entity.StartedAt(),
		CompletedAt:  entity.CompletedAt(),
	}, nil
}

func (m *SyncLogMapperImpl) ToEntities(list []*models.ExternalSyncLogModel) ([]*synclog.Entry, error) {
	out := make([]*synclog.Entry, 0, len(list))
	for _, model := range list {
		e, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
