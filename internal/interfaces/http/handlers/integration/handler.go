// Package integration serves a user's external system integrations.
package integration

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	integrationapp "github.com/Logicalyan/dashbord-reporting-module/internal/application/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	domain "github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/utils"
)

type registry interface {
	ListUserIntegrations(ctx context.Context, userID uint) ([]*dto.IntegrationDTO, error)
	GetStatusSummary(ctx context.Context, userID uint) (*dto.StatusSummary, error)
	Connect(ctx context.Context, cmd integrationapp.ConnectCommand) (*dto.IntegrationDTO, error)
	Disconnect(ctx context.Context, userID uint, provider domain.Provider) error
	TestConnection(ctx context.Context, userID uint, provider domain.Provider) (*dto.ConnectionTestResult, error)
	Reauthenticate(ctx context.Context, userID uint, provider domain.Provider, password string) (*dto.IntegrationDTO, error)
	UpdateSyncSettings(ctx context.Context, cmd integrationapp.UpdateSyncSettingsCommand) (*dto.IntegrationDTO, error)
}

type Handler struct {
	registry registry
	logger   logger.Interface
}

func NewHandler(registry registry, logger logger.Interface) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// List handles GET /integrations
func (h *Handler) List(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	list, err := h.registry.ListUserIntegrations(ctx, userID)
	if err != nil {
		h.logger.Errorw("failed to list integrations", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	summary, err := h.registry.GetStatusSummary(ctx, userID)
	if err != nil {
		h.logger.Errorw("failed to summarize integrations", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ListResponse{Integrations: list, Summary: summary})
}

// Connect handles POST /integrations/connect
func (h *Handler) Connect(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid connect request", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.registry.Connect(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Integration connected successfully", result)
}

// Disconnect handles DELETE /integrations/:provider
func (h *Handler) Disconnect(c *gin.Context) {
	userID, provider, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.registry.Disconnect(c.Request.Context(), userID, provider); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Integration disconnected successfully", nil)
}

// Test handles POST /integrations/:provider/test
func (h *Handler) Test(c *gin.Context) {
	userID, provider, ok := h.target(c)
	if !ok {
		return
	}

	result, err := h.registry.TestConnection(c.Request.Context(), userID, provider)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Connection test successful", result)
}

// Reauthenticate handles POST /integrations/:provider/reauthenticate
func (h *Handler) Reauthenticate(c *gin.Context) {
	userID, provider, ok := h.target(c)
	if !ok {
		return
	}

	var req ReauthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.registry.Reauthenticate(c.Request.Context(), userID, provider, req.Password)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Integration reauthenticated successfully", result)
}

// UpdateSyncSettings handles PUT /integrations/:provider/sync-settings
func (h *Handler) UpdateSyncSettings(c *gin.Context) {
	userID, provider, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.SyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.registry.UpdateSyncSettings(c.Request.Context(), integrationapp.UpdateSyncSettingsCommand{
		UserID:   userID,
		Provider: provider,
		Settings: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sync settings updated successfully", result)
}

// target resolves the caller and the :provider path segment, writing the
// error response itself when either is missing.
func (h *Handler) target(c *gin.Context) (uint, domain.Provider, bool) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, "", false
	}

	provider, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid provider", c.Param("provider")))
		return 0, "", false
	}
	return userID, provider, true
}
