package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/persistence/models"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// Models lists every table the service owns.
func Models() []interface{} {
	return []interface{}{
		&models.ExternalAPITokenModel{},
		&models.ExternalIntegrationModel{},
		&models.ExternalSyncLogModel{},
		&models.AttendanceModel{},
	}
}

// AutoMigrateStrategy derives the schema from the GORM models.
type AutoMigrateStrategy struct {
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface) *AutoMigrateStrategy {
	return &AutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *AutoMigrateStrategy) Migrate(db *gorm.DB) error {
	list := Models()
	s.logger.Infow("starting gorm auto migration", "models_count", len(list))

	if err := db.AutoMigrate(list...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *AutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
