package attendancesync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
)

type staticTokens string

func (s staticTokens) GetValidToken(context.Context, uint) (string, error) { return string(s), nil }

func entryAt(t *testing.T, user uint, started time.Time, status synclog.Status, dur time.Duration, stats synclog.Stats) *synclog.Entry {
	t.Helper()
	completed := started.Add(dur)
	var (
		st  *synclog.Stats
		end *time.Time
	)
	if status != synclog.StatusProcessing {
		end = &completed
	}
	if status == synclog.StatusCompleted {
		st = &stats
	}
	return synclog.ReconstructEntry(0, "sync_x", &user, synclog.TypeManual, synclog.EntityAttendance,
		day("2025-01-01"), day("2025-01-01"), status, st, "", started, end)
}

func TestGetSyncStatus(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)

	f.logs.Add(entryAt(t, userID, base, synclog.StatusCompleted, 42*time.Second, synclog.Stats{Total: 3, Created: 3}))
	f.logs.Add(entryAt(t, userID, base.Add(time.Hour), synclog.StatusFailed, 2*time.Second, synclog.Stats{}))
	f.logs.Add(entryAt(t, userID, base.Add(2*time.Hour), synclog.StatusProcessing, 0, synclog.Stats{}))
	f.logs.Add(entryAt(t, 8, base.Add(3*time.Hour), synclog.StatusCompleted, time.Second, synclog.Stats{Total: 1, Updated: 1}))

	uid := userID
	status, err := f.engine.GetSyncStatus(context.Background(), &uid)
	require.NoError(t, err)

	assert.False(t, status.HasToken)
	assert.True(t, status.IsSyncing)
	require.NotNil(t, status.LastSyncAt)
	assert.True(t, base.Add(42*time.Second).Equal(*status.LastSyncAt))
	assert.Equal(t, &synclog.Stats{Total: 3, Created: 3}, status.LastSyncStats)

	require.Len(t, status.RecentSyncs, 3)
	assert.Equal(t, "processing", status.RecentSyncs[0].Status)
	assert.Empty(t, status.RecentSyncs[0].Duration)
	assert.Equal(t, "2s", status.RecentSyncs[1].Duration)
	assert.Equal(t, "42s", status.RecentSyncs[2].Duration)

	all, err := f.engine.GetSyncStatus(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all.RecentSyncs, 4)
	assert.Equal(t, &synclog.Stats{Total: 1, Updated: 1}, all.LastSyncStats)
}

func TestGetSyncStatus_HasToken(t *testing.T) {
	f := newFixture(t)
	uid := userID

	status, err := f.engine.GetSyncStatus(context.Background(), &uid)
	require.NoError(t, err)
	assert.False(t, status.HasToken)
	assert.Nil(t, status.LastSyncAt)
	assert.NotNil(t, status.RecentSyncs)

	f.connect(t)
	status, err = f.engine.GetSyncStatus(context.Background(), &uid)
	require.NoError(t, err)
	assert.True(t, status.HasToken, "integration token counts")

	f = newFixture(t)
	f.engine.tokens = staticTokens("default-token")
	status, err = f.engine.GetSyncStatus(context.Background(), &uid)
	require.NoError(t, err)
	assert.True(t, status.HasToken, "default api token counts")
}

func TestGetSyncStatus_RecentLimit(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	for i := range 12 {
		f.logs.Add(entryAt(t, userID, base.Add(time.Duration(i)*time.Minute), synclog.StatusCompleted, time.Second, synclog.Stats{}))
	}

	status, err := f.engine.GetSyncStatus(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, status.RecentSyncs, 10)
}

func TestGetSyncStatistics(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	f.logs.Add(entryAt(t, userID, base, synclog.StatusCompleted, 10*time.Second, synclog.Stats{Total: 5, Created: 2, Updated: 1, Skipped: 1, Errors: 1}))
	f.logs.Add(entryAt(t, userID, base.Add(time.Hour), synclog.StatusCompleted, 20*time.Second, synclog.Stats{Total: 4, Updated: 4}))
	f.logs.Add(entryAt(t, userID, base.Add(2*time.Hour), synclog.StatusFailed, 5*time.Second, synclog.Stats{}))
	f.logs.Add(entryAt(t, userID, base.AddDate(0, 2, 0), synclog.StatusCompleted, time.Second, synclog.Stats{Total: 9, Created: 9}))

	fields := attendance.Fields{Status: attendance.StatusPresent, Source: attendance.SourceAPISync, SyncedAt: base}
	_, err := f.records.UpsertByKey(context.Background(), "E1", day("2025-01-10"), fields)
	require.NoError(t, err)
	_, err = f.records.UpsertByKey(context.Background(), "E1", day("2025-03-10"), fields)
	require.NoError(t, err)

	stats, err := f.engine.GetSyncStatistics(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSyncs)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 7, stats.TotalRecordsSynced)
	assert.InDelta(t, 15.0, stats.AverageDurationSec, 0.001)
	assert.Equal(t, "2025-01-09", stats.From)
	assert.Equal(t, int64(1), stats.StoredRecords)
}
