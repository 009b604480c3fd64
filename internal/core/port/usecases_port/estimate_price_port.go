package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type EstimatePriceUseCasePort interface {
	Execute(ctx context.Context, raw domain.RawRecord) (*domain.PriceEstimate, error)
}
