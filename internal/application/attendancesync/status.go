package attendancesync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/biztime"
)

// GetSyncStatus describes the attendance runs of userID, or of every user
// when userID is nil.
func (e *Engine) GetSyncStatus(ctx context.Context, userID *uint) (*dto.SyncStatus, error) {
	filter := synclog.Filter{UserID: userID, Entity: synclog.EntityAttendance}
	out := &dto.SyncStatus{RecentSyncs: []*dto.SyncLogDTO{}}

	if userID != nil {
		hasToken, err := e.hasToken(ctx, *userID)
		if err != nil {
			return nil, err
		}
		out.HasToken = hasToken
	}

	last, err := e.logs.FindLatestCompleted(ctx, filter)
	switch {
	case errors.Is(err, synclog.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load last sync: %w", err)
	default:
		out.LastSyncAt = last.CompletedAt()
		out.LastSyncStats = last.Stats()
	}

	if out.IsSyncing, err = e.logs.ExistsProcessing(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to check running syncs: %w", err)
	}

	recent, err := e.logs.ListRecent(ctx, filter, e.cfg.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent syncs: %w", err)
	}
	for _, entry := range recent {
		out.RecentSyncs = append(out.RecentSyncs, dto.FromEntry(entry))
	}
	return out, nil
}

// hasToken is true when either the default API token or the HR integration
// token is usable.
func (e *Engine) hasToken(ctx context.Context, userID uint) (bool, error) {
	if e.tokens != nil {
		token, err := e.tokens.GetValidToken(ctx, userID)
		if err != nil {
			return false, err
		}
		if token != "" {
			return true, nil
		}
	}
	return e.integrations.HasValidToken(ctx, userID, provider)
}

// GetSyncStatistics aggregates runs started within [from, to].
func (e *Engine) GetSyncStatistics(ctx context.Context, from, to time.Time, userID *uint) (*dto.SyncStatistics, error) {
	if from.After(to) {
		from, to = to, from
	}
	entries, err := e.logs.ListStartedBetween(ctx, synclog.Filter{UserID: userID, Entity: synclog.EntityAttendance}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}
	stored, err := e.records.CountBetween(ctx, biztime.DateOf(from), biztime.DateOf(to))
	if err != nil {
		return nil, err
	}
	return &dto.SyncStatistics{
		From:          biztime.FormatDate(biztime.DateOf(from)),
		To:            biztime.FormatDate(biztime.DateOf(to)),
		Summary:       synclog.Summarize(entries),
		StoredRecords: stored,
	}, nil
}
