package externalsync

import (
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SyncRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// Dates parses both bounds as calendar dates.
func (r *SyncRangeRequest) Dates() (from, to time.Time, err error) {
	if from, err = utils.ParseDateField("start_date", r.StartDate); err != nil {
		return
	}
	to, err = utils.ParseDateField("end_date", r.EndDate)
	return
}
