package port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

// ScalerPort - обученное преобразование числовых колонок.
// Неизменяемо после загрузки, безопасно для конкурентного чтения.
type ScalerPort interface {
	// FeatureNames - порядок колонок, на котором скейлер обучался
	FeatureNames() []string
	Transform(row []float64) ([]float64, error)
	Kind() string
}

// ModelFeature - колонка, которую ожидает модель
type ModelFeature struct {
	Name        string
	Categorical bool
}

// RegressorPort - загруженная регрессионная модель
type RegressorPort interface {
	Features() []ModelFeature
	Predict(record domain.NormalizedRecord) (float64, error)
	Info() domain.ModelInfo
}

// ArtifactLoaderPort загружает артефакты по адресу (путь к файлу или s3://bucket/key)
type ArtifactLoaderPort interface {
	LoadScaler(ctx context.Context, location string) (ScalerPort, error)
	LoadRegressor(ctx context.Context, location string) (RegressorPort, error)
}
