package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/common"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

type ConnectCommand struct {
	UserID   uint
	Provider integration.Provider
	Name     string
	APIURL   string
	Email    string
	Password string
}

// Connect logs in against the integration's API and binds the token. A
// failed login still persists the integration in error status.
func (r *Registry) Connect(ctx context.Context, cmd ConnectCommand) (*dto.IntegrationDTO, error) {
	r.logger.Infow("connecting integration", "user_id", cmd.UserID, "provider", cmd.Provider, "api_url", cmd.APIURL)

	if !cmd.Provider.IsValid() {
		return nil, apperrors.NewValidationError("Invalid provider", cmd.Provider.String())
	}
	if cmd.Email == "" || cmd.Password == "" {
		return nil, apperrors.NewValidationError("Email and password are required")
	}
	if cmd.Name == "" {
		cmd.Name = DefaultName(cmd.Provider)
	}

	i, err := r.repo.GetByUserAndProvider(ctx, cmd.UserID, cmd.Provider)
	switch {
	case errors.Is(err, integration.ErrNotFound):
		i, err = integration.NewIntegration(cmd.UserID, cmd.Provider, cmd.Name, cmd.APIURL, cmd.Email)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load integration: %w", err)
	default:
		if err := i.UpdateConnectionDetails(cmd.Name, cmd.APIURL, cmd.Email); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	return r.login(ctx, i, cmd.Password)
}

// Reauthenticate logs in again with the stored URL and email.
func (r *Registry) Reauthenticate(ctx context.Context, userID uint, provider integration.Provider, password string) (*dto.IntegrationDTO, error) {
	if password == "" {
		return nil, apperrors.NewValidationError("Password is required")
	}
	i, err := r.load(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	r.logger.Infow("reauthenticating integration", "user_id", userID, "provider", provider)
	return r.login(ctx, i, password)
}

func (r *Registry) login(ctx context.Context, i *integration.Integration, password string) (*dto.IntegrationDTO, error) {
	token, err := r.client.Configure(i.APIURL()).Login(ctx, i.Email(), password)
	if err != nil {
		return nil, r.connectFailed(ctx, i, err)
	}

	sealed, err := r.cipher.Encrypt(token)
	if err != nil {
		return nil, r.connectFailed(ctx, i, fmt.Errorf("failed to encrypt token: %w", err))
	}

	if err := i.MarkConnected(sealed, biztime.NowUTC().Add(r.cfg.TokenTTL)); err != nil {
		return nil, fmt.Errorf("failed to mark integration connected: %w", err)
	}
	if err := r.repo.Save(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}
	r.cacheToken(ctx, i)

	r.logger.Infow("integration connected", "user_id", i.UserID(), "provider", i.Provider(), "id", i.SID())
	return dto.FromDomain(i, biztime.NowUTC()), nil
}

// connectFailed records the failure on the integration and returns the
// caller-facing error.
func (r *Registry) connectFailed(ctx context.Context, i *integration.Integration, cause error) error {
	var (
		authErr *hrapi.AuthenticationError
		apiErr  *hrapi.APIError
		netErr  *hrapi.NetworkError
		message string
		result  *apperrors.AppError
	)
	switch {
	case errors.As(cause, &authErr), errors.As(cause, &apiErr):
		message = "Authentication failed: " + common.ExternalMessage(cause)
		result = apperrors.NewAuthenticationFailedError(message).WithCause(cause)
	case errors.As(cause, &netErr):
		message = common.ExternalMessage(cause)
		result = apperrors.NewNetworkUnreachableError(common.MsgUnreachable).WithCause(cause)
		if netErr.Timeout {
			result = apperrors.NewNetworkTimeoutError(common.MsgTimeout).WithCause(cause)
		}
	default:
		message = cause.Error()
		result = apperrors.NewInternalError("Failed to connect integration").WithCause(cause)
	}

	r.logger.Warnw("integration connect failed",
		"user_id", i.UserID(),
		"provider", i.Provider(),
		"api_url", i.APIURL(),
		"error", cause,
	)

	if err := i.MarkConnectFailed(message); err != nil {
		r.logger.Errorw("failed to mark integration error", "user_id", i.UserID(), "error", err)
		return result
	}
	if err := r.repo.Save(ctx, i); err != nil {
		r.logger.Errorw("failed to persist integration error", "user_id", i.UserID(), "error", err)
	}
	r.forgetToken(ctx, i.UserID(), i.Provider())
	return result
}
