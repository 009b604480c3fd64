package usecase

import (
	"context"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

// GetFormOptionsUseCase отдает допустимые значения полей формы
type GetFormOptionsUseCase struct {
	options []domain.FieldOption
}

func NewGetFormOptionsUseCase() *GetFormOptionsUseCase {
	return &GetFormOptionsUseCase{options: domain.FormOptions()}
}

func (uc *GetFormOptionsUseCase) Execute(ctx context.Context) []domain.FieldOption {
	logger := contextkeys.LoggerFromContext(ctx)
	logger.WithFields(port.Fields{"use_case": "GetFormOptions"}).Debug("Returning form options", port.Fields{
		"fields": len(uc.options),
	})

	out := make([]domain.FieldOption, len(uc.options))
	copy(out, uc.options)
	return out
}
