// Package migration owns the database schema.
package migration

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/config"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
)

// Scripts holds the versioned SQL, one directory per dialect.
//
//go:embed scripts
var Scripts embed.FS

// ScriptsDir is where `migrate create` writes new files, relative to the
// repository root.
const ScriptsDir = "./internal/infrastructure/migration/scripts"

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate brings the schema up to date.
	Migrate(db *gorm.DB) error
	// GetName returns the strategy name
	GetName() string
}

// NewStrategy picks AutoMigrate for development and goose scripts otherwise.
func NewStrategy(environment, driver string, log logger.Interface) (Strategy, error) {
	if strings.EqualFold(environment, constants.EnvDevelopment) {
		return NewAutoMigrateStrategy(log), nil
	}
	return NewGooseStrategy(driver, log)
}

// dialectFor maps a database driver onto goose's dialect and script directory.
func dialectFor(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverMySQL, "":
		return "mysql", path.Join("scripts", "mysql"), nil
	case config.DriverPostgres:
		return "postgres", path.Join("scripts", "postgres"), nil
	case config.DriverSQLite:
		return "sqlite3", path.Join("scripts", "sqlite"), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
