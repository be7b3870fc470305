// Package database holds the store handle shared by every repository: the
// connection pool, a dialect-aware query builder and the transaction scope.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Querier is the subset of database/sql used by repositories. *sql.DB, *sql.Conn
// and *sql.Tx all satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
	Driver       string
}

// New wraps an open pool. The placeholder format follows the driver.
func New(sqlDB *sql.DB, driver string) *DB {
	var format squirrel.PlaceholderFormat = squirrel.Question

	if driver == DriverPostgres {
		format = squirrel.Dollar
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(format),
		Driver:       driver,
	}
}

// WithTx runs fn inside a transaction on a dedicated connection. The
// transaction is committed when fn returns nil and rolled back when it returns
// an error or panics; panics are re-raised. The connection goes back to the
// pool on every path.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx Querier) error) (err error) {
	conn, err := db.Conn(ctx)

	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}

	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}

		if cmErr := tx.Commit(); cmErr != nil {
			err = fmt.Errorf("commit: %w", MapError(cmErr))
		}
	}()

	err = fn(ctx, tx)

	return err
}
