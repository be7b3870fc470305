package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound     = errors.New("database: record not found")
	ErrDuplicateKey = errors.New("database: duplicate key")
)

const pgUniqueViolation = "23505"

// DBError pairs a sentinel with the driver error that produced it, so callers
// can match with errors.Is and still reach the raw cause.
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// MapError translates driver errors into the package sentinels. Errors it does
// not recognise are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
		}
		return err
	}

	// wrapped drivers may flatten the typed error into text
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
	}

	return err
}
