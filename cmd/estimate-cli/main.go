package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"price-estimator-service/internal"
	"price-estimator-service/internal/adapters/cli"
	logger_adapter "price-estimator-service/internal/adapters/logger"
	"price-estimator-service/internal/configs"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/usecase"
)

func main() {
	var (
		envFlag      = flag.String("env", ".env", "Path to the .env file")
		modelFlag    = flag.String("model", "", "Model artifact path or s3:// URL (overrides MODEL_PATH)")
		scalerFlag   = flag.String("scaler", "", "Scaler artifact path or s3:// URL (overrides SCALER_PATH)")
		bandFlag     = flag.String("band", "", "Price band preset: point, band-90-100, band-85-100, band-90-110 (overrides PRICE_BAND)")
		logLevelFlag = flag.String("log-level", "warn", "Log level for stderr: debug, info, warn, error")
	)
	flag.Parse()

	// флаги важнее переменных окружения и .env
	setIfNotEmpty("MODEL_PATH", *modelFlag)
	setIfNotEmpty("SCALER_PATH", *scalerFlag)
	setIfNotEmpty("PRICE_BAND", *bandFlag)

	appConfig, err := configs.LoadConfig(*envFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    internal.ParseLogLevel(*logLevelFlag),
		UseColor: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	pipeline, err := internal.BuildPipeline(ctx, appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to load prediction pipeline: %v", err)
	}

	estimatePrice := usecase.NewEstimatePriceUseCase(
		pipeline.Normalizer,
		pipeline.Estimator,
		appConfig.Pricing.Band,
		domain.NewPriceFormatter(appConfig.Pricing.Currency),
		nil, nil,
	)

	fmt.Println("Real estate price estimator")
	err = cli.Run(ctx, cli.NewSurveyDriver(), estimatePrice, os.Stdout)
	switch {
	case errors.Is(err, cli.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Println("Bye.")
	case err != nil:
		log.Fatalf("Estimation failed: %v", err)
	}
}

func setIfNotEmpty(key, value string) {
	if value != "" {
		_ = os.Setenv(key, value)
	}
}
