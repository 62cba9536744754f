// Package errors provides application-level error types and utilities.
// Every error that reaches the HTTP layer is an *AppError carrying its status code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"

	// external sync taxonomy
	ErrorTypeAuthenticationFailed ErrorType = "authentication_failed"
	ErrorTypeNetworkUnreachable   ErrorType = "network_unreachable"
	ErrorTypeNetworkTimeout       ErrorType = "network_timeout"
	ErrorTypeExternalAPI          ErrorType = "external_api_error"
	ErrorTypeNoActiveIntegration  ErrorType = "no_active_integration"
	ErrorTypeTokenExpired         ErrorType = "token_expired"
	ErrorTypeNotConnected         ErrorType = "not_connected"
	ErrorTypeSyncInProgress       ErrorType = "sync_in_progress"
)

// ErrTransactionAborted marks storage failures that leave the surrounding
// transaction unusable. A batch that sees it must roll back as a whole.
var ErrTransactionAborted = errors.New("transaction aborted")

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error without exposing it in Message.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{Type: t, Message: message, Code: code, Details: detail}
}

func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewAuthenticationFailedError is returned when the external API rejects credentials.
func NewAuthenticationFailedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAuthenticationFailed, http.StatusUnauthorized, message, details)
}

func NewNetworkUnreachableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNetworkUnreachable, http.StatusBadGateway, message, details)
}

func NewNetworkTimeoutError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNetworkTimeout, http.StatusGatewayTimeout, message, details)
}

func NewExternalAPIError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeExternalAPI, http.StatusBadGateway, message, details)
}

func NewNoActiveIntegrationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNoActiveIntegration, http.StatusPreconditionFailed, message, details)
}

func NewTokenExpiredError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTokenExpired, http.StatusUnauthorized, message, details)
}

func NewNotConnectedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotConnected, http.StatusPreconditionFailed, message, details)
}

func NewSyncInProgressError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeSyncInProgress, http.StatusConflict, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFoundError(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL / SQLite unique violation
	return strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "UNIQUE constraint failed")
}
