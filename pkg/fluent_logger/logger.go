package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит конфигурацию для подключения к Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // обычно 24224
	TagPrefix string // общий префикс тегов этого сервиса
	// Async - не блокировать запрос, если Fluent Bit недоступен
	Async bool
}

func (c Config) toFluent() (fluent.Config, error) {
	if c.TagPrefix == "" {
		return fluent.Config{}, fmt.Errorf("fluentd tag prefix is required")
	}
	if c.Host == "" {
		return fluent.Config{}, fmt.Errorf("fluentd host is required")
	}
	return fluent.Config{
		FluentHost:   c.Host,
		FluentPort:   c.Port,
		TagPrefix:    c.TagPrefix,
		Async:        c.Async,
		Timeout:      3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

// NewClient создает клиент Fluent Bit. Соединение устанавливается лениво,
// ошибки появятся при первой отправке.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	fcfg, err := cfg.toFluent()
	if err != nil {
		return nil, err
	}
	logger, err := fluent.New(fcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return logger, nil
}
