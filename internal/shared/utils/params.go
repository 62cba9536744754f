package utils

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

// GetUserID returns the user id placed in the context by the auth middleware.
func GetUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}
	return userID, nil
}

// ParseDateField parses a YYYY-MM-DD value, naming the field on failure.
func ParseDateField(field, value string) (t time.Time, err error) {
	t, err = biztime.ParseDate(value)
	if err != nil {
		return t, errors.NewValidationError("invalid "+field+", expected YYYY-MM-DD", value)
	}
	return t, nil
}
