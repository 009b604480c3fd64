package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type GetFormOptionsUseCasePort interface {
	Execute(ctx context.Context) []domain.FieldOption
}
