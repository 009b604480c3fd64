package contextkeys

import (
	"context"

	"price-estimator-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// discard используется, когда логгер в контекст не положили (тесты, CLI без логов)
var discard port.LoggerPort = noopLogger{}

func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext никогда не возвращает nil
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return discard
}

type noopLogger struct{}

func (noopLogger) Info(string, port.Fields)         {}
func (noopLogger) Warn(string, port.Fields)         {}
func (noopLogger) Error(string, error, port.Fields) {}
func (noopLogger) Debug(string, port.Fields)        {}

func (n noopLogger) WithFields(port.Fields) port.LoggerPort { return n }
