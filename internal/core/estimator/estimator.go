package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

// Estimator оборачивает загруженную регрессионную модель
type Estimator struct {
	model port.RegressorPort
}

// New загружает модель сразу. Ошибка загрузки фатальна для сервиса,
// поэтому не откладываем ее до первого запроса.
func New(ctx context.Context, loader port.ArtifactLoaderPort, location string) (*Estimator, error) {
	if loader == nil {
		return nil, &domain.ArtifactLoadError{Artifact: "model", Location: location, Err: errors.New("artifact loader is nil")}
	}
	model, err := loader.LoadRegressor(ctx, location)
	if err != nil {
		var loadErr *domain.ArtifactLoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &domain.ArtifactLoadError{Artifact: "model", Location: location, Err: err}
	}
	e, err := NewWithModel(model)
	if err != nil {
		return nil, &domain.ArtifactLoadError{Artifact: "model", Location: location, Err: err}
	}
	return e, nil
}

// NewWithModel - для уже загруженной модели
func NewWithModel(model port.RegressorPort) (*Estimator, error) {
	if model == nil {
		return nil, fmt.Errorf("estimator: model cannot be nil")
	}
	if len(model.Features()) == 0 {
		return nil, fmt.Errorf("estimator: model declares no features")
	}
	return &Estimator{model: model}, nil
}

// Describe возвращает метаданные модели
func (e *Estimator) Describe() domain.ModelInfo {
	return e.model.Info()
}

// Predict проверяет колонки и вызывает модель на одной записи
func (e *Estimator) Predict(ctx context.Context, record domain.NormalizedRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := e.checkColumns(record); err != nil {
		return 0, err
	}

	prediction, err := e.evaluate(record)
	if err != nil {
		return 0, &domain.InferenceError{Err: err}
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, &domain.InferenceError{Err: fmt.Errorf("model returned non-finite value %v", prediction)}
	}
	return prediction, nil
}

func (e *Estimator) checkColumns(record domain.NormalizedRecord) error {
	verr := domain.NewValidationError()
	var kindMismatch []string

	for _, feature := range e.model.Features() {
		field, ok := record.Lookup(feature.Name)
		if !ok {
			verr.Add(feature.Name, fmt.Sprintf("Column %q is missing from the normalized record.", feature.Name))
			continue
		}
		if feature.Categorical == field.IsNumeric() {
			kindMismatch = append(kindMismatch, feature.Name)
		}
	}

	if verr.HasViolations() {
		return verr
	}
	if len(kindMismatch) > 0 {
		return &domain.ShapeMismatchError{
			Stage:  "model",
			Detail: fmt.Sprintf("column kinds differ from the trained model for %v", kindMismatch),
		}
	}
	return nil
}

// evaluate изолирует панику внутри модели, чтобы отдать ее как InferenceError
func (e *Estimator) evaluate(record domain.NormalizedRecord) (prediction float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return e.model.Predict(record)
}
