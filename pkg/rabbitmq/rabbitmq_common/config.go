package rabbitmq_common

import (
	"fmt"
	"net/url"
	"time"
)

// Config - общие настройки подключения для производителей
type Config struct {
	URL string
	// ReconnectInterval - пауза между попытками переподключения. По умолчанию 10с.
	ReconnectInterval time.Duration
}

// Validate проверяет, что URL похож на amqp-адрес
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: invalid URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("rabbitmq: URL scheme must be amqp or amqps, got %q", u.Scheme)
	}
	if c.ReconnectInterval < 0 {
		return fmt.Errorf("rabbitmq: reconnect interval cannot be negative")
	}
	return nil
}

func (c Config) reconnectInterval() time.Duration {
	if c.ReconnectInterval == 0 {
		return 10 * time.Second
	}
	return c.ReconnectInterval
}
