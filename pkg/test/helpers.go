package test

import (
	"log"
	"testing"

	"userapp/internal/adapter/database"
	"userapp/internal/adapter/database/sqlite"
)

// InitTestDB opens a private in-memory SQLite store with the schema applied.
func InitTestDB() *database.DB {
	db, err := sqlite.Open(database.Config{
		Driver:      database.DriverSQLite,
		Path:        ":memory:",
		ServiceName: "userapp-test",
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// SetupTestDB is InitTestDB with the store closed when t finishes.
func SetupTestDB(t testing.TB) *database.DB {
	t.Helper()

	db := InitTestDB()
	t.Cleanup(func() { db.Close() })

	return db
}

// CleanDB empties every application table, keeping the migration bookkeeping.
func CleanDB(t testing.TB, db *database.DB) {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}

	rows.Close()

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", table, err)
		}
	}
}
