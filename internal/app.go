package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "price-estimator-service/internal/adapters/logger"
	postgres_adapter "price-estimator-service/internal/adapters/postgres"
	rabbitmq_adapter "price-estimator-service/internal/adapters/rabbitmq"
	"price-estimator-service/internal/adapters/rest"
	"price-estimator-service/internal/configs"
	"price-estimator-service/internal/constants"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/usecase"
	fluentlogger "price-estimator-service/pkg/fluent_logger"
	"price-estimator-service/pkg/postgres"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	logger    port.LoggerPort

	// опциональные ресурсы, nil если выключены
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logFile       io.Closer
}

// NewApp - composition root: конфиг, логгеры, артефакты, use cases, адаптеры.
// Любая ошибка загрузки модели или скейлера останавливает старт.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	// при ошибке закрываем то, что успели открыть
	ok := false
	defer func() {
		if !ok {
			app.closeResources()
		}
	}()

	baseLogger, err := app.initLoggers()
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger = appLogger

	ctx := context.Background()

	// --- АРТЕФАКТЫ ---
	pipeline, err := BuildPipeline(ctx, appConfig, baseLogger)
	if err != nil {
		return nil, err
	}

	// --- ИСТОРИЯ (PostgreSQL) ---
	var history port.PredictionHistoryPort
	if appConfig.HistoryEnabled() {
		dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		app.dbPool = dbPool

		repo, err := postgres_adapter.NewPredictionHistoryRepository(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create prediction history repository: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			appLogger.Error("Failed to prepare prediction history table", err, nil)
			return nil, err
		}
		history = repo
		appLogger.Info("Prediction history enabled (PostgreSQL).", nil)
	} else {
		appLogger.Info("DATABASE_URL is not set, prediction history disabled.", nil)
	}

	// --- СОБЫТИЯ (RabbitMQ) ---
	var events port.PredictionEventsPort
	if appConfig.EventsEnabled() {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.GetManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		app.connManager = connManager

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.PredictionsExchange,
			ExchangeType:             constants.PredictionsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		app.eventProducer = producer

		publisher, err := rabbitmq_adapter.NewPredictionEventsPublisher(producer, constants.RoutingKeyPredictionCompleted)
		if err != nil {
			return nil, err
		}
		events = publisher
		appLogger.Info("Prediction events enabled (RabbitMQ).", nil)
	} else {
		appLogger.Info("RABBITMQ_URL is not set, prediction events disabled.", nil)
	}

	// --- USE CASES ---
	formatter := domain.NewPriceFormatter(appConfig.Pricing.Currency)
	estimatePriceUseCase := usecase.NewEstimatePriceUseCase(pipeline.Normalizer, pipeline.Estimator, appConfig.Pricing.Band, formatter, history, events)
	getPredictionUseCase := usecase.NewGetPredictionUseCase(history)
	getFormOptionsUseCase := usecase.NewGetFormOptionsUseCase()
	getModelInfoUseCase := usecase.NewGetModelInfoUseCase(pipeline.Estimator, pipeline.Scaler, appConfig.Pricing.Band, appConfig.BinaryPolicy, appConfig.Pricing.Currency)
	appLogger.Info("All use cases initialized.", nil)

	// --- REST ---
	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.CORS.AllowedOrigins,
		RateLimitRPS:   appConfig.RateLimit.RPS,
		RateLimitBurst: appConfig.RateLimit.Burst,
	},
		rest.NewPredictionHandler(estimatePriceUseCase, getPredictionUseCase),
		rest.NewInfoHandler(getFormOptionsUseCase, getModelInfoUseCase),
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	ok = true
	return app, nil
}

// initLoggers собирает stdout, файл и Fluent Bit в один MultiLogger
func (a *App) initLoggers() (port.LoggerPort, error) {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    ParseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.Format == "json",
		UseColor: cfg.StdoutLogger.Format != "json",
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.StdoutLogger.File != "" {
		fileWriter := logger_adapter.NewRotatingFileWriter(logger_adapter.FileConfig{Path: cfg.StdoutLogger.File})
		a.logFile = fileWriter
		activeLoggers = append(activeLoggers, logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Writer: fileWriter,
			Level:  ParseLogLevel(cfg.StdoutLogger.Level),
			IsJSON: true,
		}))
	}

	if cfg.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = fluentClient

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, ParseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
		"log_file":       cfg.StdoutLogger.File,
	})
	return baseLogger, nil
}

// Run запускает HTTP-сервер и ждет сигнала на завершение
func (a *App) Run() error {
	defer a.closeResources()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("HTTP server failed, shutting down", runErr, nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	return runErr
}

// closeResources закрывает ресурсы в обратном порядке создания
func (a *App) closeResources() {
	logger := a.logger
	if logger == nil {
		logger = logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{})
	}

	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		logger.Info("PostgreSQL pool closed.", nil)
	}

	logger.Info("Application shut down.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// ParseLogLevel - общий разбор уровня для сервиса и CLI.
// Неизвестный уровень: предупреждение в stderr и info.
func ParseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
