package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
)

// IntegrationMapper converts between integration entities and rows.
type IntegrationMapper interface {
	ToEntity(model *models.ExternalIntegrationModel) (*integration.Integration, error)
	ToModel(entity *integration.Integration) (*models.ExternalIntegrationModel, error)
	ToEntities(models []*models.ExternalIntegrationModel) ([]*integration.Integration, error)
}

type IntegrationMapperImpl struct{}

func NewIntegrationMapper() IntegrationMapper {
	return &IntegrationMapperImpl{}
}

func (m *IntegrationMapperImpl) ToEntity(model *models.ExternalIntegrationModel) (*integration.Integration, error) {
	if model == nil {
		return nil, nil
	}

	var settings integration.SyncSettings
	if len(model.SyncSettings) > 0 {
		if err := json.Unmarshal(model.SyncSettings, &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sync settings: %w", err)
		}
	}

	var metadata map[string]any
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return integration.ReconstructIntegration(
		model.ID,
		model.SID,
		model.UserID,
		integration.Provider(model.Provider),
		model.Name,
		integration.Status(model.Status),
		model.APIURL,
		model.Email,
		deref(model.AccessToken),
		model.TokenExpiresAt,
		model.LastSyncedAt,
		settings,
		metadata,
		deref(model.ErrorMessage),
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *IntegrationMapperImpl) ToModel(entity *integration.Integration) (*models.ExternalIntegrationModel, error) {
	if entity == nil {
		return nil, nil
	}

	settingsJSON, err := json.Marshal(entity.SyncSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync settings: %w", err)
	}

	var metadataJSON datatypes.JSON
	if md := entity.Metadata(); len(md) > 0 {
		b, err := json.Marshal(md)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = b
	}

	return &models.ExternalIntegrationModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		UserID:         entity.UserID(),
		Provider:       entity.Provider().String(),
		Name:           entity.Name(),
		Status:         entity.Status().String(),
		APIURL:         entity.APIURL(),
		Email:          entity.Email(),
		AccessToken:    ptrOrNil(entity.EncryptedToken()),
		TokenExpiresAt: entity.TokenExpiresAt(),
		LastSyncedAt:   entity.LastSyncedAt(),
		SyncSettings:   settingsJSON,
		Metadata:       metadataJSON,
		ErrorMessage:   ptrOrNil(entity.ErrorMessage()),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *IntegrationMapperImpl) ToEntities(list []*models.ExternalIntegrationModel) ([]*integration.Integration, error) {
	out := make([]*integration.Integration, 0, len(list))
	for _, model := range list {
		e, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
