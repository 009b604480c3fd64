package usecase

import (
	"context"
	"fmt"
	"time"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/google/uuid"
)

// RecordNormalizer - то, что use case ждет от нормализатора
type RecordNormalizer interface {
	Process(raw domain.RawRecord) (domain.NormalizedRecord, error)
	Policy() domain.BinaryPolicy
}

// PriceModel - то, что use case ждет от оценщика
type PriceModel interface {
	Predict(ctx context.Context, record domain.NormalizedRecord) (float64, error)
	Describe() domain.ModelInfo
}

// EstimatePriceUseCase прогоняет запись через весь конвейер:
// проверка -> нормализация -> модель -> диапазон -> форматирование.
type EstimatePriceUseCase struct {
	normalizer RecordNormalizer
	model      PriceModel
	band       domain.PriceBand
	formatter  *domain.PriceFormatter

	// history и events опциональны
	history port.PredictionHistoryPort
	events  port.PredictionEventsPort

	now func() time.Time
}

func NewEstimatePriceUseCase(
	normalizer RecordNormalizer,
	model PriceModel,
	band domain.PriceBand,
	formatter *domain.PriceFormatter,
	history port.PredictionHistoryPort,
	events port.PredictionEventsPort,
) *EstimatePriceUseCase {
	return &EstimatePriceUseCase{
		normalizer: normalizer,
		model:      model,
		band:       band,
		formatter:  formatter,
		history:    history,
		events:     events,
		now:        time.Now,
	}
}

// Execute возвращает оценку или типизированную ошибку из domain.
// Сохранение в историю и публикация события не влияют на результат.
func (uc *EstimatePriceUseCase) Execute(ctx context.Context, raw domain.RawRecord) (*domain.PriceEstimate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "EstimatePrice",
	})

	ucLogger.Info("Use case started", nil)
	start := uc.now()

	if err := domain.ValidateRawRecord(raw, uc.normalizer.Policy()); err != nil {
		ucLogger.Warn("Input rejected by validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	record, err := uc.normalizer.Process(raw)
	if err != nil {
		ucLogger.Error("Normalization failed", err, nil)
		return nil, err
	}

	prediction, err := uc.model.Predict(ctx, record)
	if err != nil {
		ucLogger.Error("Model failed to produce a prediction", err, nil)
		return nil, err
	}

	result := uc.band.Apply(prediction)
	estimate := &domain.PriceEstimate{
		ID:        uuid.New(),
		Input:     raw,
		Result:    result,
		Band:      uc.band,
		Display:   uc.formatter.Format(result),
		Currency:  uc.formatter.Currency(),
		CreatedAt: uc.now().UTC(),
	}

	estLogger := ucLogger.WithFields(port.Fields{"prediction_id": estimate.ID.String()})

	if uc.history != nil {
		if err := uc.history.Save(ctx, estimate); err != nil {
			estLogger.Error("Failed to save prediction to history", err, nil)
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishPredictionCompleted(ctx, estimate); err != nil {
			estLogger.Error("Failed to publish prediction event", err, nil)
		}
	}

	estLogger.Info("Use case finished", port.Fields{
		"prediction":  fmt.Sprintf("%.2f", prediction),
		"is_range":    result.IsRange,
		"duration_ms": uc.now().Sub(start).Milliseconds(),
	})
	return estimate, nil
}
