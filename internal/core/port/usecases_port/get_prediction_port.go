package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetPredictionUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.PriceEstimate, error)
}
