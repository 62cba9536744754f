// Package dto holds the outward shapes of integrations. Tokens never leave
// the service; only has_valid_token is exposed.
package dto

import (
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
)

type IntegrationDTO struct {
	ID            string                   `json:"id"`
	Provider      string                   `json:"provider"`
	Name          string                   `json:"name"`
	Status        string                   `json:"status"`
	APIURL        string                   `json:"api_url"`
	Email         string                   `json:"email"`
	HasValidToken bool                     `json:"has_valid_token"`
	TokenExpires  *time.Time               `json:"token_expires_at,omitempty"`
	LastSyncedAt  *time.Time               `json:"last_synced_at,omitempty"`
	SyncSettings  integration.SyncSettings `json:"sync_settings"`
	Metadata      map[string]any           `json:"metadata,omitempty"`
	ErrorMessage  string                   `json:"error_message,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func FromDomain(i *integration.Integration, now time.Time) *IntegrationDTO {
	if i == nil {
		return nil
	}
	return &IntegrationDTO{
		ID:            i.SID(),
		Provider:      i.Provider().String(),
		Name:          i.Name(),
		Status:        i.Status().String(),
		APIURL:        i.APIURL(),
		Email:         i.Email(),
		HasValidToken: i.HasValidToken(now),
		TokenExpires:  i.TokenExpiresAt(),
		LastSyncedAt:  i.LastSyncedAt(),
		SyncSettings:  i.SyncSettings(),
		Metadata:      i.Metadata(),
		ErrorMessage:  i.ErrorMessage(),
		CreatedAt:     i.CreatedAt(),
		UpdatedAt:     i.UpdatedAt(),
	}
}

func FromDomainList(list []*integration.Integration, now time.Time) []*IntegrationDTO {
	out := make([]*IntegrationDTO, 0, len(list))
	for _, i := range list {
		out = append(out, FromDomain(i, now))
	}
	return out
}

// StatusSummary counts a user's integrations by status.
type StatusSummary struct {
	Total        int64 `json:"total"`
	Connected    int64 `json:"connected"`
	Disconnected int64 `json:"disconnected"`
	Error        int64 `json:"error"`
}

type ConnectionTestResult struct {
	Success bool           `json:"success"`
	User    map[string]any `json:"user,omitempty"`
}

// SyncSettingsRequest is a partial update; absent fields keep their value.
type SyncSettingsRequest struct {
	AutoSyncEnabled *bool    `json:"auto_sync_enabled"`
	SyncFrequency   string   `json:"sync_frequency" validate:"omitempty,oneof=hourly daily weekly"`
	SyncTime        string   `json:"sync_time" validate:"omitempty,hhmm"`
	Entities        []string `json:"entities" validate:"omitempty,dive,oneof=attendance employees payroll"`
}

func (r SyncSettingsRequest) ToDomain() integration.SyncSettings {
	return integration.SyncSettings{
		AutoSyncEnabled: r.AutoSyncEnabled,
		SyncFrequency:   r.SyncFrequency,
		SyncTime:        r.SyncTime,
		Entities:        r.Entities,
	}
}
