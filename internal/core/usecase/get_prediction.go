package usecase

import (
	"context"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/google/uuid"
)

type GetPredictionUseCase struct {
	history port.PredictionHistoryPort
}

// NewGetPredictionUseCase - history может быть nil, если хранилище не настроено
func NewGetPredictionUseCase(history port.PredictionHistoryPort) *GetPredictionUseCase {
	return &GetPredictionUseCase{history: history}
}

func (uc *GetPredictionUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.PriceEstimate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "GetPrediction",
		"prediction_id": id.String(),
	})

	if uc.history == nil {
		ucLogger.Warn("Prediction history is not configured", nil)
		return nil, domain.ErrHistoryDisabled
	}

	ucLogger.Info("Use case started", nil)

	estimate, err := uc.history.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return estimate, nil
}
