package logger_adapter

import (
	"errors"
	"log"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"price-estimator-service/internal/core/port"
)

// FluentPoster - часть *fluent.Fluent, которой пользуется адаптер
type FluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentLoggerAdapter отправляет записи в Fluent Bit, тег записи = уровень.
// Префикс сервиса к тегу добавляет сам клиент.
type FluentLoggerAdapter struct {
	client   FluentPoster
	fields   port.Fields
	minLevel slog.Level

	// первая ошибка отправки пишется в stderr, остальные молча теряются
	postFailed *atomic.Bool
}

func NewFluentLoggerAdapter(client FluentPoster, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, errors.New("fluent client cannot be nil")
	}
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &FluentLoggerAdapter{
		client:     client,
		fields:     port.Fields{},
		minLevel:   level,
		postFailed: &atomic.Bool{},
	}, nil
}

func (a *FluentLoggerAdapter) record(level slog.Level, msg string, err error, fields port.Fields) {
	if level < a.minLevel {
		return
	}

	tag := strings.ToLower(level.String())
	data := make(port.Fields, len(a.fields)+len(fields)+4)
	for k, v := range a.fields {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}
	if err != nil {
		data["error"] = err.Error()
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	if postErr := a.client.Post(tag, data); postErr != nil && a.postFailed.CompareAndSwap(false, true) {
		log.Printf("WARNING: fluent bit logger failed to post a record, further failures are not reported: %v", postErr)
	}
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.record(slog.LevelDebug, msg, nil, fields)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.record(slog.LevelInfo, msg, nil, fields)
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.record(slog.LevelWarn, msg, nil, fields)
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	a.record(slog.LevelError, msg, err, fields)
}

func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	merged := make(port.Fields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FluentLoggerAdapter{
		client:     a.client,
		fields:     merged,
		minLevel:   a.minLevel,
		postFailed: a.postFailed,
	}
}

func (a *FluentLoggerAdapter) Close() error {
	return a.client.Close()
}
