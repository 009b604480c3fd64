package usecases_port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

type GetModelInfoUseCasePort interface {
	Execute(ctx context.Context) domain.PipelineInfo
}
