// Package store picks the database backend named by the configuration.
package store

import (
	"fmt"

	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/postgres"
	"userapp/internal/adapter/database/sqlite"
	"userapp/pkg/config"
)

// ConfigFrom maps the application settings onto the store settings.
func ConfigFrom(cfg *config.AppConfig) database.Config {
	return database.Config{
		Driver:      cfg.DatabaseDriver,
		Path:        cfg.DatabasePath,
		URL:         cfg.DatabaseURL,
		ServiceName: cfg.ServiceName,
		SQLLog:      cfg.SQLLogEnabled,
	}
}

func Open(cfg database.Config) (*database.DB, error) {
	switch cfg.Driver {
	case database.DriverSQLite, "":
		return sqlite.Open(cfg)
	case database.DriverPostgres:
		return postgres.Open(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
