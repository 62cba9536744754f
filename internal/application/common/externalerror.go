// Package common holds helpers shared by the application services.
package common

import (
	"context"
	"errors"

	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

const (
	MsgUnreachable = "Unable to connect to API server. Please check the API URL."
	MsgTimeout     = "The external API did not respond in time. Please try again later."
)

// ClassifyExternalError maps HR client failures onto application errors.
// Transport details stay in the cause; callers only see a generic message.
func ClassifyExternalError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	var (
		authErr *hrapi.AuthenticationError
		apiErr  *hrapi.APIError
		netErr  *hrapi.NetworkError
		respErr *hrapi.ResponseError
	)
	switch {
	case errors.As(err, &authErr):
		return apperrors.NewAuthenticationFailedError("Authentication failed: " + authErr.Message).WithCause(err)
	case errors.As(err, &netErr):
		if netErr.Timeout {
			return apperrors.NewNetworkTimeoutError(MsgTimeout).WithCause(err)
		}
		return apperrors.NewNetworkUnreachableError(MsgUnreachable).WithCause(err)
	case errors.As(err, &apiErr):
		return apperrors.NewExternalAPIError(apiErr.Message).WithCause(err)
	case errors.As(err, &respErr):
		return apperrors.NewExternalAPIError(respErr.Message).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewNetworkTimeoutError(MsgTimeout).WithCause(err)
	default:
		return apperrors.NewInternalError("Internal server error").WithCause(err)
	}
}

// ExternalMessage is the message recorded on integrations and sync logs. It
// keeps the URL of network failures for operators.
func ExternalMessage(err error) string {
	var (
		authErr *hrapi.AuthenticationError
		apiErr  *hrapi.APIError
		netErr  *hrapi.NetworkError
		respErr *hrapi.ResponseError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &netErr):
		return "Unable to connect to API server: " + netErr.URL
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &respErr):
		return respErr.Message
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
