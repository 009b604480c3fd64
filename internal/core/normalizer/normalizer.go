// Package normalizer превращает сырую запись из UI в строку, готовую для модели.
package normalizer

import (
	"fmt"
	"slices"

	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

// Normalizer детерминирован и не имеет побочных эффектов; скейлер только читается
type Normalizer struct {
	scaler port.ScalerPort
	policy domain.BinaryPolicy
}

// New проверяет, что скейлер обучен ровно на domain.ScaledColumns в том же порядке
func New(scaler port.ScalerPort, policy domain.BinaryPolicy) (*Normalizer, error) {
	if scaler == nil {
		return nil, fmt.Errorf("normalizer: scaler cannot be nil")
	}
	if got := scaler.FeatureNames(); !slices.Equal(got, domain.ScaledColumns) {
		return nil, &domain.ShapeMismatchError{
			Stage:    "scaler",
			Expected: domain.ScaledColumns,
			Got:      got,
		}
	}
	return &Normalizer{scaler: scaler, policy: policy}, nil
}

// Policy - политика кодирования Yes/No полей
func (n *Normalizer) Policy() domain.BinaryPolicy {
	return n.policy
}

// Encode кодирует поля без масштабирования
func (n *Normalizer) Encode(raw domain.RawRecord) (domain.EncodedRecord, error) {
	if err := domain.CheckSchema(raw, n.policy); err != nil {
		return domain.EncodedRecord{}, err
	}

	enc := domain.EncodedRecord{
		Numeric:     make(map[string]float64, len(domain.ScaledColumns)),
		Categorical: make(map[string]string, len(domain.FeatureSchema)-len(domain.ScaledColumns)),
	}

	for _, spec := range domain.FeatureSchema {
		value := raw[spec.Name]
		switch spec.Kind {
		case domain.KindBinary:
			enc.Numeric[spec.Name] = encodeBinary(value)
		case domain.KindCategorical:
			enc.Categorical[spec.Name] = fmt.Sprint(value)
		case domain.KindNumeric:
			if value == nil {
				// только Garden surface / Terrace surface, остальное отсеяно CheckSchema
				enc.Numeric[spec.Name] = 0
				continue
			}
			v, err := domain.NumberValue(value)
			if err != nil {
				return domain.EncodedRecord{}, domain.NewValidationError(domain.FieldViolation{
					Field:   spec.Name,
					Message: fmt.Sprintf("Field %q must be a number.", spec.Name),
				})
			}
			enc.Numeric[spec.Name] = v
		}
	}

	return enc, nil
}

func encodeBinary(v any) float64 {
	if s, ok := v.(string); ok && s == string(domain.BinaryYes) {
		return 1
	}
	return 0
}

// Process кодирует запись и масштабирует все числовые колонки одной строкой
func (n *Normalizer) Process(raw domain.RawRecord) (domain.NormalizedRecord, error) {
	enc, err := n.Encode(raw)
	if err != nil {
		return domain.NormalizedRecord{}, err
	}

	row := make([]float64, len(domain.ScaledColumns))
	for i, name := range domain.ScaledColumns {
		row[i] = enc.Numeric[name]
	}

	scaled, err := n.scaler.Transform(row)
	if err != nil {
		return domain.NormalizedRecord{}, &domain.ShapeMismatchError{
			Stage:  "scaler",
			Detail: err.Error(),
		}
	}
	if len(scaled) != len(row) {
		return domain.NormalizedRecord{}, &domain.ShapeMismatchError{
			Stage:  "scaler",
			Detail: fmt.Sprintf("transform returned %d values for %d columns", len(scaled), len(row)),
		}
	}

	scaledByName := make(map[string]float64, len(scaled))
	for i, name := range domain.ScaledColumns {
		scaledByName[name] = scaled[i]
	}

	out := domain.NormalizedRecord{Fields: make([]domain.NormalizedField, 0, len(domain.FeatureSchema))}
	for _, spec := range domain.FeatureSchema {
		field := domain.NormalizedField{Name: spec.Name, Kind: spec.Kind}
		if spec.Kind == domain.KindCategorical {
			field.Text = enc.Categorical[spec.Name]
		} else {
			field.Number = scaledByName[spec.Name]
		}
		out.Fields = append(out.Fields, field)
	}
	return out, nil
}
