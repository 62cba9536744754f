package attendancesync

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
)

// SyncAllAuto runs SyncYesterday for every user with auto sync enabled. One
// user's failure does not stop the others; all failures are combined.
func (e *Engine) SyncAllAuto(ctx context.Context) (*dto.AutoSyncReport, error) {
	users, err := e.integrations.ListAutoSyncUsers(ctx, provider, synclog.EntityAttendance)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report = &dto.AutoSyncReport{Users: len(users)}
		errs   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for _, userID := range users {
		g.Go(func() error {
			_, err := e.SyncYesterday(gctx, userID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Succeeded++
			case apperrors.IsType(err, apperrors.ErrorTypeSyncInProgress):
				e.logger.Infow("auto sync skipped, run in progress", "user_id", userID)
			default:
				report.Failed++
				errs = multierr.Append(errs, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Infow("auto sync finished",
		"users", report.Users,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, errs
}
