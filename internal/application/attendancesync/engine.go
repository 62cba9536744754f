// Package attendancesync pulls attendance from the HR system into local
// storage and audits every run.
package attendancesync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/common"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/cache"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/hrapi"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	apperrors "github.com/Logicalyan/dashbord-reporting-module/internal/shared/errors"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

const (
	msgNoActiveIntegration = "No active HR system integration found. Please connect first."
	msgSyncInProgress      = "A sync is already running for this integration"
)

// provider is the only source of attendance.
const provider = integration.ProviderHRSystem

// Integrations is the part of the integration registry a run depends on.
type Integrations interface {
	HasActiveIntegration(ctx context.Context, userID uint, provider integration.Provider) (bool, error)
	GetConfiguredClient(ctx context.Context, userID uint, provider integration.Provider) (*hrapi.Client, error)
	HasValidToken(ctx context.Context, userID uint, provider integration.Provider) (bool, error)
	MarkSynced(ctx context.Context, userID uint, provider integration.Provider, at time.Time) error
	ListAutoSyncUsers(ctx context.Context, provider integration.Provider, entity string) ([]uint, error)
}

// TokenSource reports the user's default external API token.
type TokenSource interface {
	GetValidToken(ctx context.Context, userID uint) (string, error)
}

type Config struct {
	MaxRangeDays int
	RecentLimit  int
	// LockTTL bounds how long a crashed run can keep its pair locked.
	LockTTL time.Duration
	// Concurrency caps parallel users in SyncAllAuto.
	Concurrency int
}

type SyncCommand struct {
	UserID uint
	From   time.Time
	To     time.Time
	Type   synclog.Type
}

type Engine struct {
	integrations Integrations
	tokens       TokenSource
	logs         synclog.Repository
	records      attendance.Repository
	tx           db.Transactor
	locker       cache.Locker
	cfg          Config
	logger       logger.Interface
}

func NewEngine(
	integrations Integrations,
	tokens TokenSource,
	logs synclog.Repository,
	records attendance.Repository,
	tx db.Transactor,
	locker cache.Locker,
	cfg Config,
	logger logger.Interface,
) *Engine {
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = 90
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Engine{
		integrations: integrations,
		tokens:       tokens,
		logs:         logs,
		records:      records,
		tx:           tx,
		locker:       locker,
		cfg:          cfg,
		logger:       logger,
	}
}

// SyncYesterday syncs the previous business day as an automatic run.
func (e *Engine) SyncYesterday(ctx context.Context, userID uint) (*dto.SyncResult, error) {
	day := biztime.Yesterday()
	return e.SyncAttendance(ctx, SyncCommand{UserID: userID, From: day, To: day, Type: synclog.TypeAuto})
}

// SyncDateRange is a manual run over [from, to].
func (e *Engine) SyncDateRange(ctx context.Context, userID uint, from, to time.Time) (*dto.SyncResult, error) {
	from, to = biztime.CalendarDate(from), biztime.CalendarDate(to)
	if from.After(to) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date")
	}
	if days := biztime.DaysBetween(from, to); days > e.cfg.MaxRangeDays {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Date range must not exceed %d days", e.cfg.MaxRangeDays),
			fmt.Sprintf("requested %d days", days),
		)
	}
	return e.SyncAttendance(ctx, SyncCommand{UserID: userID, From: from, To: to, Type: synclog.TypeManual})
}

// SyncAttendance runs one audited sync. The log entry is finalized exactly
// once, and a failed run returns its error after being recorded.
func (e *Engine) SyncAttendance(ctx context.Context, cmd SyncCommand) (*dto.SyncResult, error) {
	active, err := e.integrations.HasActiveIntegration(ctx, cmd.UserID, provider)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperrors.NewNoActiveIntegrationError(msgNoActiveIntegration)
	}

	release, ok, err := e.locker.TryAcquire(ctx, cache.SyncLockKey(cmd.UserID, provider.String()), e.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !ok {
		return nil, apperrors.NewSyncInProgressError(msgSyncInProgress)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warnw("failed to release sync lock", "user_id", cmd.UserID, "error", err)
		}
	}()

	userID := cmd.UserID
	entry, err := synclog.NewEntry(&userID, cmd.Type, synclog.EntityAttendance, cmd.From, cmd.To)
	if err != nil {
		if errors.Is(err, synclog.ErrInvalidRange) {
			return nil, apperrors.NewValidationError("start_date must not be after end_date")
		}
		return nil, err
	}
	if err := e.logs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create sync log: %w", err)
	}

	log := e.logger.With("sync_log_id", entry.SID(), "user_id", cmd.UserID, "type", cmd.Type)
	log.Infow("attendance sync started",
		"from", biztime.FormatDate(cmd.From),
		"to", biztime.FormatDate(cmd.To),
	)

	stats, runErr := e.run(ctx, log, cmd)

	// finalization must survive a canceled request
	finalCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		message := common.ExternalMessage(runErr)
		if err := entry.Fail(message); err != nil {
			return nil, err
		}
		if err := e.logs.Update(finalCtx, entry); err != nil {
			log.Errorw("failed to record sync failure", "error", err)
		}
		log.Errorw("attendance sync failed", "error", runErr)
		return nil, classifyRunError(runErr)
	}

	if err := entry.Complete(stats); err != nil {
		return nil, err
	}
	if err := e.logs.Update(finalCtx, entry); err != nil {
		return nil, fmt.Errorf("failed to record sync completion: %w", err)
	}
	if err := e.integrations.MarkSynced(finalCtx, cmd.UserID, provider, *entry.CompletedAt()); err != nil {
		log.Warnw("failed to update last_synced_at", "error", err)
	}

	log.Infow("attendance sync completed",
		"total", stats.Total,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)

	return &dto.SyncResult{
		SyncLogID: entry.SID(),
		Type:      string(entry.Type()),
		DateFrom:  biztime.FormatDate(entry.DateFrom()),
		DateTo:    biztime.FormatDate(entry.DateTo()),
		Stats:     stats,
	}, nil
}

func (e *Engine) run(ctx context.Context, log logger.Interface, cmd SyncCommand) (synclog.Stats, error) {
	client, err := e.integrations.GetConfiguredClient(ctx, cmd.UserID, provider)
	if err != nil {
		return synclog.Stats{}, err
	}

	records, err := client.FetchAttendance(ctx, cmd.From, cmd.To)
	if err != nil {
		return synclog.Stats{}, err
	}
	log.Debugw("attendance fetched", "count", len(records))

	return e.reconcile(ctx, log, records)
}

func classifyRunError(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, apperrors.ErrTransactionAborted) || errors.Is(err, errReconcileAborted) {
		return apperrors.NewInternalError("Attendance sync failed and was rolled back").WithCause(err)
	}
	return common.ClassifyExternalError(err)
}
