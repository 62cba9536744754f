package http

import (
	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/attendance"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/externaltoken"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/repository"
	shareddb "github.com/Logicalyan/dashbord-reporting-module/internal/shared/db"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	externalTokenRepo externaltoken.Repository
	integrationRepo   integration.Repository
	syncLogRepo       synclog.Repository
	attendanceRepo    attendance.Repository
	txManager         *shareddb.TransactionManager
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		externalTokenRepo: repository.NewExternalAPITokenRepository(db, log),
		integrationRepo:   repository.NewIntegrationRepository(db, log),
		syncLogRepo:       repository.NewSyncLogRepository(db, log),
		attendanceRepo:    repository.NewAttendanceRepository(db, log),
		txManager:         shareddb.NewTransactionManager(db),
	}
}
