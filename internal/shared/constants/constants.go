package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	AppName = "dashboard"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"

	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Table names
	TableAttendances          = "attendances"
	TableExternalAPITokens    = "external_api_tokens"
	TableExternalIntegrations = "external_integrations"
	TableExternalSyncLogs     = "external_sync_logs"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
)
