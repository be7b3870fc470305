package database

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

type Config struct {
	Driver      string
	Path        string
	URL         string
	ServiceName string

	// SQLLog enables per-statement logging to SQLLogWriter (stdout when nil).
	SQLLog       bool
	SQLLogWriter io.Writer
}

// OpenInstrumented opens a pool whose connections emit OpenTelemetry spans and,
// when enabled, a zerolog line per statement.
func OpenInstrumented(driverName, dsn, dbSystem string, cfg Config) (*sql.DB, error) {
	sqlDB, err := otelsql.Open(driverName, dsn,
		otelsql.WithDBSystem(dbSystem),
		otelsql.WithDBName(cfg.ServiceName),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbSystem, err)
	}

	if !cfg.SQLLog {
		return sqlDB, nil
	}

	writer := cfg.SQLLogWriter

	if writer == nil {
		writer = os.Stdout
	}

	logger := zerolog.New(writer).With().Timestamp().Str("component", "sql").Logger()

	logged := sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger),
		sqldblogger.WithSQLQueryAsMessage(true),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
	)

	// the instrumented pool never opened a connection; only its driver is reused
	_ = sqlDB.Close()

	return logged, nil
}
