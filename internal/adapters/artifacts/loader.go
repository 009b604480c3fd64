package artifacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

// Loader читает артефакты из файла или s3:// и собирает скейлер/модель
type Loader struct {
	files  Source
	s3     Source
	logger port.LoggerPort
}

// NewLoader - s3 может быть nil, тогда s3:// адреса не поддерживаются
func NewLoader(s3 Source, logger port.LoggerPort) *Loader {
	if logger == nil {
		logger = contextkeys.LoggerFromContext(context.Background())
	}
	return &Loader{
		files:  FileSource{},
		s3:     s3,
		logger: logger,
	}
}

func (l *Loader) open(ctx context.Context, location string, out any) error {
	src := l.files
	if IsS3Location(location) {
		if l.s3 == nil {
			return errors.New("s3 locations are not configured")
		}
		src = l.s3
	}

	rc, err := src.Open(ctx, location)
	if err != nil {
		return err
	}
	defer rc.Close()

	return decodeArtifact(location, rc, out)
}

func (l *Loader) LoadScaler(ctx context.Context, location string) (port.ScalerPort, error) {
	start := time.Now()
	logger := l.logger.WithFields(port.Fields{"artifact": "scaler", "location": location})

	var a scalerArtifact
	if err := l.open(ctx, location, &a); err != nil {
		logger.Error("Failed to read scaler artifact", err, nil)
		return nil, &domain.ArtifactLoadError{Artifact: "scaler", Location: location, Err: err}
	}
	scaler, err := newScaler(a)
	if err != nil {
		logger.Error("Scaler artifact is invalid", err, nil)
		return nil, &domain.ArtifactLoadError{Artifact: "scaler", Location: location, Err: err}
	}

	logger.Info("Scaler loaded", port.Fields{
		"kind":        scaler.Kind(),
		"features":    len(a.FeatureNames),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return scaler, nil
}

func (l *Loader) LoadRegressor(ctx context.Context, location string) (port.RegressorPort, error) {
	start := time.Now()
	logger := l.logger.WithFields(port.Fields{"artifact": "model", "location": location})

	var a modelArtifact
	if err := l.open(ctx, location, &a); err != nil {
		logger.Error("Failed to read model artifact", err, nil)
		return nil, &domain.ArtifactLoadError{Artifact: "model", Location: location, Err: err}
	}
	model, err := newRegressor(a)
	if err != nil {
		logger.Error("Model artifact is invalid", err, nil)
		return nil, &domain.ArtifactLoadError{Artifact: "model", Location: location, Err: fmt.Errorf("invalid model: %w", err)}
	}

	info := model.Info()
	logger.Info("Model loaded", port.Fields{
		"kind":        info.Kind,
		"version":     info.Version,
		"features":    info.FeatureCount,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return model, nil
}
