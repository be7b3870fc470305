package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"userapp/db/migrations"
	"userapp/internal/adapter/database"
)

const (
	driverName = "sqlite3"
	memoryPath = ":memory:"
)

// Open opens the SQLite file at cfg.Path (":memory:" for a private in-memory
// store) and applies the bootstrap migration.
func Open(cfg database.Config) (*database.DB, error) {
	path := cfg.Path

	if path == "" {
		path = "users.db"
	}

	sqlDB, err := database.OpenInstrumented(driverName, dsn(path), "sqlite", cfg)

	if err != nil {
		return nil, err
	}

	if isMemory(path) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database.New(sqlDB, database.DriverSQLite), nil
}

// RunMigrations applies the embedded SQLite migrations on db. The migrate
// instance is not closed since that would close db.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.SQLite, "sqlite")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func isMemory(path string) bool {
	return path == memoryPath || strings.Contains(path, "mode=memory")
}

func dsn(path string) string {
	separator := "?"

	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + "_busy_timeout=5000&_foreign_keys=on"
}
