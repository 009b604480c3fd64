package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	logger_adapter "price-estimator-service/internal/adapters/logger"
	"price-estimator-service/internal/configs"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func quietLogger() port.LoggerPort {
	return logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
}

func TestBuildPipeline_BundledArtifacts(t *testing.T) {
	cfg := &configs.AppConfig{BinaryPolicy: domain.BinaryStrict}
	cfg.Artifacts.ModelPath = filepath.Join("..", "model", "model.json")
	cfg.Artifacts.ScalerPath = filepath.Join("..", "model", "scaler.json")

	p, err := BuildPipeline(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if p.Scaler == nil || p.Normalizer == nil || p.Estimator == nil {
		t.Fatalf("pipeline has nil stages: %+v", p)
	}
	if got := p.Estimator.Describe().FeatureCount; got != len(domain.FeatureSchema) {
		t.Fatalf("FeatureCount = %d, want %d", got, len(domain.FeatureSchema))
	}
}

func TestBuildPipeline_MissingModelFailsFast(t *testing.T) {
	cfg := &configs.AppConfig{BinaryPolicy: domain.BinaryStrict}
	cfg.Artifacts.ModelPath = filepath.Join("..", "model", "missing.json")
	cfg.Artifacts.ScalerPath = filepath.Join("..", "model", "scaler.json")

	_, err := BuildPipeline(context.Background(), cfg, quietLogger())
	var loadErr *domain.ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *domain.ArtifactLoadError", err)
	}
}
