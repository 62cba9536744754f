// Package externalsync serves the default external API login and the
// attendance sync endpoints.
package externalsync

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/common"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/utils"
)

type syncService interface {
	SyncDateRange(ctx context.Context, userID uint, from, to time.Time) (*dto.SyncResult, error)
	SyncYesterday(ctx context.Context, userID uint) (*dto.SyncResult, error)
	GetSyncStatus(ctx context.Context, userID *uint) (*dto.SyncStatus, error)
	GetSyncStatistics(ctx context.Context, from, to time.Time, userID *uint) (*dto.SyncStatistics, error)
}

type tokenService interface {
	LoginAndSaveToken(ctx context.Context, userID uint, email, password string) (string, error)
	RevokeToken(ctx context.Context, userID uint) error
}

type Handler struct {
	sync   syncService
	tokens tokenService
	logger logger.Interface
}

func NewHandler(sync syncService, tokens tokenService, logger logger.Interface) *Handler {
	return &Handler{
		sync:   sync,
		tokens: tokens,
		logger: logger,
	}
}

// Login handles POST /external/login. The token itself stays server side.
func (h *Handler) Login(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid external login request", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.tokens.LoginAndSaveToken(c.Request.Context(), userID, req.Email, req.Password); err != nil {
		utils.ErrorResponseWithError(c, common.ClassifyExternalError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "External API login successful", nil)
}

// Logout handles POST /external/logout
func (h *Handler) Logout(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.tokens.RevokeToken(c.Request.Context(), userID); err != nil {
		h.logger.Errorw("failed to revoke external api token", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "External API token revoked", nil)
}

// SyncRange handles POST /external/sync
func (h *Handler) SyncRange(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SyncRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := req.Dates()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.sync.SyncDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance sync completed", result)
}

// SyncYesterday handles POST /external/sync/yesterday
func (h *Handler) SyncYesterday(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.sync.SyncYesterday(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance sync completed", result)
}

// Status handles GET /external/sync/status
func (h *Handler) Status(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := h.sync.GetSyncStatus(c.Request.Context(), &userID)
	if err != nil {
		h.logger.Errorw("failed to get sync status", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", status)
}

// Statistics handles GET /external/sync/statistics?from=&to=. Without bounds
// it covers the last month.
func (h *Handler) Statistics(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	now := biztime.NowUTC()
	from, to := now.AddDate(0, -1, 0), now

	if raw := c.Query("from"); raw != "" {
		d, err := utils.ParseDateField("from", raw)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		from = biztime.StartOfDay(d)
	}
	if raw := c.Query("to"); raw != "" {
		d, err := utils.ParseDateField("to", raw)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		to = biztime.EndOfDay(d)
	}

	stats, err := h.sync.GetSyncStatistics(c.Request.Context(), from, to, &userID)
	if err != nil {
		h.logger.Errorw("failed to get sync statistics", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}
