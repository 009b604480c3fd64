package port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

// PredictionHistoryPort - хранилище выполненных оценок
type PredictionHistoryPort interface {
	Save(ctx context.Context, estimate *domain.PriceEstimate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PriceEstimate, error)
}
