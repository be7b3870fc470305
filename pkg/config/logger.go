package config

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap logger whose Ctx(ctx) entries carry the active trace and
// span ids.
type Logger struct {
	*otelzap.Logger
	ServiceName string
}

func NewLogger(serviceName, level string) (*Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)

	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &Logger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
	}, nil
}

func NewNopLogger() *Logger {
	return &Logger{
		Logger:      otelzap.New(zap.NewNop()),
		ServiceName: "nop",
	}
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
