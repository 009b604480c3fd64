package port

import (
	"context"
	"price-estimator-service/internal/core/domain"
)

// PredictionEventsPort публикует событие о завершенной оценке
type PredictionEventsPort interface {
	PublishPredictionCompleted(ctx context.Context, estimate *domain.PriceEstimate) error
}
