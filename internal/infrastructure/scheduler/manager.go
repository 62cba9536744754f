// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// AutoSyncer runs the automatic attendance sync for every eligible user.
type AutoSyncer interface {
	SyncAllAuto(ctx context.Context) (*dto.AutoSyncReport, error)
}

// SchedulerManager owns the process-wide gocron scheduler.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// DailyCron turns "HH:MM" into a daily cron expression.
func DailyCron(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid daily time %q, expected HH:MM", at)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// ========================================
// Attendance Sync Jobs (daily, business timezone)
// ========================================

// RegisterAttendanceSyncJob syncs yesterday's attendance for every user with
// auto sync enabled, once a day at the given HH:MM. timeout bounds a whole
// pass over all users.
func (m *SchedulerManager) RegisterAttendanceSyncJob(syncer AutoSyncer, at string, timeout time.Duration) error {
	expr, err := DailyCron(at)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = time.Hour
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runAttendanceSync(ctx, syncer)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("sync", "attendance"),
		gocron.WithName("attendance-auto-sync"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered attendance sync job", "at", at, "cron", expr)
	return nil
}

func (m *SchedulerManager) runAttendanceSync(ctx context.Context, syncer AutoSyncer) {
	m.logger.Debugw("attendance auto sync started")

	startTime := biztime.NowUTC()
	report, err := syncer.SyncAllAuto(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil && report == nil {
			return
		}
		m.logger.Errorw("attendance auto sync finished with errors",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("attendance auto sync completed",
		"users", report.Users,
		"succeeded", report.Succeeded,
		"duration", time.Since(startTime),
	)
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
