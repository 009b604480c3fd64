package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConnectionManager держит одно соединение RabbitMQ на процесс и раздает из него каналы
type ConnectionManager struct {
	cfg        Config
	connection *amqp.Connection
	mutex      sync.RWMutex
	closed     chan *amqp.Error
	stop       chan struct{}
	stopOnce   sync.Once
	Logger     Logger
}

var (
	managerInstance *ConnectionManager
	managerErr      error
	once            sync.Once
)

// GetManager создает или возвращает глобальный экземпляр менеджера.
// Параметры учитываются только при первом вызове.
func GetManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	once.Do(func() {
		managerInstance, managerErr = NewManager(cfg, logger)
	})
	return managerInstance, managerErr
}

// NewManager подключается сразу и запускает фоновое переподключение
func NewManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{
		cfg:    cfg,
		stop:   make(chan struct{}),
		Logger: logger,
	}
	if _, err := m.getConnection(); err != nil {
		logger.Error(err, "Initial RabbitMQ connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}
	go m.handleReconnect()
	return m, nil
}

// getConnection возвращает живое соединение, при необходимости переподключаясь
func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	conn := m.connection
	m.mutex.RUnlock()
	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}
	return m.dial()
}

func (m *ConnectionManager) dial() (*amqp.Connection, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// пока ждали блокировку, соединение мог поднять другой вызов
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	conn, err := amqp.Dial(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	m.connection = conn
	m.closed = conn.NotifyClose(make(chan *amqp.Error, 1))
	m.Logger.Info("RabbitMQ connection established")
	return conn, nil
}

// GetChannel открывает новый канал на общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	return conn, ch, nil
}

// handleReconnect ждет закрытия соединения брокером и переподключается
// с паузой reconnectInterval между попытками
func (m *ConnectionManager) handleReconnect() {
	for {
		m.mutex.RLock()
		closed := m.closed
		m.mutex.RUnlock()

		select {
		case <-m.stop:
			return
		case reason, ok := <-closed:
			if !ok && reason == nil {
				// канал закрыт без ошибки: Close() вызван нами
				select {
				case <-m.stop:
					return
				default:
				}
			}
			m.Logger.Warn("RabbitMQ connection lost, reconnecting", "reason", reason)
		}

		for attempt := 1; ; attempt++ {
			select {
			case <-m.stop:
				return
			case <-time.After(m.cfg.reconnectInterval()):
			}
			if _, err := m.dial(); err != nil {
				m.Logger.Error(err, "RabbitMQ reconnect failed", "attempt", attempt)
				continue
			}
			break
		}
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		return nil
	}
	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "Failed to close RabbitMQ connection")
		return err
	}
	m.Logger.Info("RabbitMQ connection closed")
	return nil
}
