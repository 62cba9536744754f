package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
	applogger "github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

var ownedTables = []string{
	constants.TableExternalAPITokens,
	constants.TableExternalIntegrations,
	constants.TableExternalSyncLogs,
	constants.TableAttendances,
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestScriptsEmbeddedForEveryDialect(t *testing.T) {
	for _, dir := range []string{"scripts/mysql", "scripts/postgres", "scripts/sqlite"} {
		files, err := fs.Glob(Scripts, dir+"/*.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, files, dir)
	}
}

func TestNewStrategy(t *testing.T) {
	log := applogger.NewNop()

	s, err := NewStrategy("development", "mysql", log)
	require.NoError(t, err)
	assert.Equal(t, "gorm_auto_migrate", s.GetName())

	s, err = NewStrategy("production", "postgres", log)
	require.NoError(t, err)
	assert.Equal(t, "goose", s.GetName())

	_, err = NewStrategy("production", "oracle", log)
	assert.Error(t, err)
}

func TestAutoMigrateStrategy(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, NewAutoMigrateStrategy(applogger.NewNop()).Migrate(db))

	for _, table := range ownedTables {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := setupTestDB(t)
	s, err := NewGooseStrategy("sqlite", applogger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Migrate(db))
	for _, table := range ownedTables {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(constants.TableAttendances, "uk_attendance_employee_date"))

	version, err := s.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, s.Migrate(db), "re-running is a no-op")

	require.NoError(t, s.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable(constants.TableAttendances))
}
