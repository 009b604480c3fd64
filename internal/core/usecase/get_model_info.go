package usecase

import (
	"context"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

type GetModelInfoUseCase struct {
	model      PriceModel
	scalerKind string
	band       domain.PriceBand
	policy     domain.BinaryPolicy
	currency   string
}

func NewGetModelInfoUseCase(model PriceModel, scaler port.ScalerPort, band domain.PriceBand, policy domain.BinaryPolicy, currency string) *GetModelInfoUseCase {
	return &GetModelInfoUseCase{
		model:      model,
		scalerKind: scaler.Kind(),
		band:       band,
		policy:     policy,
		currency:   currency,
	}
}

// Execute описывает конвейер, который сейчас обслуживает запросы
func (uc *GetModelInfoUseCase) Execute(ctx context.Context) domain.PipelineInfo {
	contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetModelInfo"}).Debug("Describing pipeline", nil)

	return domain.PipelineInfo{
		Model:         uc.model.Describe(),
		ScalerKind:    uc.scalerKind,
		ScaledColumns: append([]string(nil), domain.ScaledColumns...),
		Band:          uc.band,
		BinaryPolicy:  uc.policy,
		Currency:      uc.currency,
	}
}
