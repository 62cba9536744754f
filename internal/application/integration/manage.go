package integration

import (
	"context"
	"fmt"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/common"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/utils"
)

// Disconnect drops the credential binding but keeps the integration row.
func (r *Registry) Disconnect(ctx context.Context, userID uint, provider integration.Provider) error {
	i, err := r.load(ctx, userID, provider)
	if err != nil {
		return err
	}
	if err := i.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect integration: %w", err)
	}
	if err := r.repo.Save(ctx, i); err != nil {
		return fmt.Errorf("failed to save integration: %w", err)
	}
	r.forgetToken(ctx, userID, provider)

	r.logger.Infow("integration disconnected", "user_id", userID, "provider", provider)
	return nil
}

// TestConnection calls the profile endpoint with the stored token and
// records the outcome on the integration.
func (r *Registry) TestConnection(ctx context.Context, userID uint, provider integration.Provider) (*dto.ConnectionTestResult, error) {
	i, err := r.load(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	if !i.HasToken() {
		return nil, apperrors.NewNotConnectedError(msgNoToken)
	}

	token, err := r.cipher.Decrypt(i.EncryptedToken())
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt integration token: %w", err)
	}

	user, err := r.client.Configure(i.APIURL()).WithToken(token).Profile(ctx)
	if err != nil {
		r.logger.Warnw("integration connection test failed", "user_id", userID, "provider", provider, "error", err)
		if markErr := i.MarkError("Connection test failed: " + common.ExternalMessage(err)); markErr == nil {
			if saveErr := r.repo.Save(ctx, i); saveErr != nil {
				r.logger.Errorw("failed to persist integration error", "user_id", userID, "error", saveErr)
			}
		}
		return nil, common.ClassifyExternalError(err)
	}

	if err := i.MarkHealthy(); err != nil {
		return nil, fmt.Errorf("failed to mark integration healthy: %w", err)
	}
	if err := r.repo.Save(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}

	return &dto.ConnectionTestResult{Success: true, User: user}, nil
}

type UpdateSyncSettingsCommand struct {
	UserID   uint
	Provider integration.Provider
	Settings dto.SyncSettingsRequest
}

func (r *Registry) UpdateSyncSettings(ctx context.Context, cmd UpdateSyncSettingsCommand) (*dto.IntegrationDTO, error) {
	if err := utils.ValidateStruct(cmd.Settings); err != nil {
		return nil, err
	}

	i, err := r.load(ctx, cmd.UserID, cmd.Provider)
	if err != nil {
		return nil, err
	}
	i.UpdateSyncSettings(cmd.Settings.ToDomain())
	if err := r.repo.Save(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}

	r.logger.Infow("integration sync settings updated", "user_id", cmd.UserID, "provider", cmd.Provider)
	return dto.FromDomain(i, biztime.NowUTC()), nil
}
