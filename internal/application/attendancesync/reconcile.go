package attendancesync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

var errReconcileAborted = errors.New("attendance reconciliation aborted")

// reconcile applies records in API order inside one transaction. Per-record
// failures are tallied; fatal ones roll the whole batch back.
func (e *Engine) reconcile(ctx context.Context, log logger.Interface, records []attendance.ExternalRecord) (synclog.Stats, error) {
	var stats synclog.Stats
	syncedAt := biztime.NowUTC()

	err := e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		stats = synclog.Stats{}
		for idx, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcome, err := e.apply(ctx, rec, syncedAt)
			if err != nil {
				if isFatal(err) {
					return err
				}
				log.Warnw("attendance record failed",
					"index", idx,
					"record", rec,
					"error", err,
				)
				outcome = synclog.OutcomeError
			}
			stats.Record(outcome)
		}
		return nil
	})
	if err != nil {
		return synclog.Stats{}, fmt.Errorf("%w: %w", errReconcileAborted, err)
	}
	return stats, nil
}

func (e *Engine) apply(ctx context.Context, rec attendance.ExternalRecord, syncedAt time.Time) (synclog.Outcome, error) {
	if !rec.HasKey() {
		return synclog.OutcomeSkipped, nil
	}

	date, err := parseRecordDate(*rec.Date)
	if err != nil {
		return synclog.OutcomeError, err
	}

	var rawStatus string
	if rec.Status != nil {
		rawStatus = *rec.Status
	}
	status, err := attendance.ParseStatus(rawStatus)
	if err != nil {
		return synclog.OutcomeError, err
	}

	created, err := e.records.UpsertByKey(ctx, *rec.EmployeeID, date, attendance.Fields{
		Status:     status,
		CheckIn:    rec.CheckIn,
		CheckOut:   rec.CheckOut,
		Hours:      rec.Hours,
		Overtime:   rec.Overtime,
		Source:     attendance.SourceAPISync,
		SyncedAt:   syncedAt,
		ExternalID: rec.ID,
	})
	if err != nil {
		return synclog.OutcomeError, err
	}
	if created {
		return synclog.OutcomeCreated, nil
	}
	return synclog.OutcomeUpdated, nil
}

// parseRecordDate accepts YYYY-MM-DD and timestamps starting with it.
func parseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(biztime.DateLayout) {
		s = s[:len(biztime.DateLayout)]
	}
	return biztime.ParseDate(s)
}

func isFatal(err error) bool {
	return errors.Is(err, apperrors.ErrTransactionAborted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
