package internal

import (
	"context"
	"fmt"

	"price-estimator-service/internal/adapters/artifacts"
	"price-estimator-service/internal/configs"
	"price-estimator-service/internal/core/estimator"
	"price-estimator-service/internal/core/normalizer"
	"price-estimator-service/internal/core/port"
)

// Pipeline - загруженные артефакты и готовые к работе стадии конвейера
type Pipeline struct {
	Scaler     port.ScalerPort
	Normalizer *normalizer.Normalizer
	Estimator  *estimator.Estimator
}

// BuildPipeline загружает скейлер и модель и проверяет, что они сходятся со схемой.
// Используется и сервисом, и CLI.
func BuildPipeline(ctx context.Context, cfg *configs.AppConfig, baseLogger port.LoggerPort) (*Pipeline, error) {
	logger := baseLogger.WithFields(port.Fields{"component": "pipeline"})

	var s3Source artifacts.Source
	if artifacts.IsS3Location(cfg.Artifacts.ModelPath) || artifacts.IsS3Location(cfg.Artifacts.ScalerPath) {
		src, err := artifacts.NewS3Source(ctx, artifacts.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			logger.Error("Failed to create S3 artifact source", err, nil)
			return nil, fmt.Errorf("failed to create S3 artifact source: %w", err)
		}
		s3Source = src
	}
	loader := artifacts.NewLoader(s3Source, baseLogger.WithFields(port.Fields{"component": "artifact_loader"}))

	scaler, err := loader.LoadScaler(ctx, cfg.Artifacts.ScalerPath)
	if err != nil {
		return nil, err
	}
	recordNormalizer, err := normalizer.New(scaler, cfg.BinaryPolicy)
	if err != nil {
		logger.Error("Scaler does not match the feature schema", err, nil)
		return nil, err
	}
	priceEstimator, err := estimator.New(ctx, loader, cfg.Artifacts.ModelPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Prediction pipeline ready", port.Fields{
		"model":         priceEstimator.Describe().Kind,
		"scaler":        scaler.Kind(),
		"band":          cfg.Pricing.Band.String(),
		"binary_policy": cfg.BinaryPolicy.String(),
	})
	return &Pipeline{Scaler: scaler, Normalizer: recordNormalizer, Estimator: priceEstimator}, nil
}
