package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// BinaryPolicy определяет, что делать со значением Yes/No поля вне {Yes, No}
type BinaryPolicy int

const (
	// BinaryStrict - значение вне {Yes, No} является ошибкой валидации
	BinaryStrict BinaryPolicy = iota
	// BinaryLenient - всё, что не "Yes", кодируется как 0 (совместимость со старыми пайплайнами)
	BinaryLenient
)

// ParseBinaryPolicy разбирает значение из конфигурации
func ParseBinaryPolicy(s string) (BinaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return BinaryStrict, nil
	case "lenient", "legacy":
		return BinaryLenient, nil
	default:
		return BinaryStrict, fmt.Errorf("unknown binary encoding policy %q", s)
	}
}

func (p BinaryPolicy) String() string {
	if p == BinaryLenient {
		return "lenient"
	}
	return "strict"
}

const (
	MinZipCode = 1000
	MaxZipCode = 9999
)

// Тексты правил показываются пользователю как есть
const (
	MsgLivingAreaPositive = "Living area must be a positive number."
	MsgLocalityRequired   = "Locality must not be empty."
	MsgBedroomsPositive   = "Number of bedrooms must be at least 1."
	MsgZipCodeRange       = "Zip code must be a 4-digit number."
)

// ValidateRawRecord проверяет запись до нормализации: сначала схему, затем бизнес-правила.
// Возвращает nil или *ValidationError со всеми найденными нарушениями.
func ValidateRawRecord(raw RawRecord, policy BinaryPolicy) error {
	verr := checkSchema(raw, policy)
	// Бизнес-правила проверяем только если сами поля корректны
	if verr.HasViolations() {
		return verr
	}

	if n, _ := NumberValue(raw[FieldLivingArea]); n <= 0 {
		verr.Add(FieldLivingArea, MsgLivingAreaPositive)
	}
	if s, _ := raw[FieldLocality].(string); strings.TrimSpace(s) == "" {
		verr.Add(FieldLocality, MsgLocalityRequired)
	}
	if n, _ := NumberValue(raw[FieldBedrooms]); n <= 0 {
		verr.Add(FieldBedrooms, MsgBedroomsPositive)
	}
	if n, _ := NumberValue(raw[FieldZipCode]); n < MinZipCode || n > MaxZipCode || n != math.Trunc(n) {
		verr.Add(FieldZipCode, MsgZipCodeRange)
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}

// CheckSchema проверяет только набор полей и типы значений, без бизнес-правил
func CheckSchema(raw RawRecord, policy BinaryPolicy) error {
	if verr := checkSchema(raw, policy); verr.HasViolations() {
		return verr
	}
	return nil
}

func checkSchema(raw RawRecord, policy BinaryPolicy) *ValidationError {
	verr := NewValidationError()

	var unknown []string
	for name := range raw {
		if _, ok := LookupField(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		verr.Add(name, fmt.Sprintf("Unknown field %q.", name))
	}

	for _, spec := range FeatureSchema {
		value, present := raw[spec.Name]
		if !present || value == nil {
			if !spec.Optional {
				verr.Add(spec.Name, fmt.Sprintf("Field %q is required.", spec.Name))
			}
			continue
		}

		switch spec.Kind {
		case KindNumeric:
			n, err := NumberValue(value)
			if err != nil {
				verr.Add(spec.Name, fmt.Sprintf("Field %q must be a number.", spec.Name))
				continue
			}
			if math.IsNaN(n) || math.IsInf(n, 0) {
				verr.Add(spec.Name, fmt.Sprintf("Field %q must be a finite number.", spec.Name))
			}
		case KindBinary:
			s, ok := value.(string)
			if !ok {
				verr.Add(spec.Name, fmt.Sprintf("Field %q must be \"Yes\" or \"No\".", spec.Name))
				continue
			}
			if policy == BinaryStrict && s != string(BinaryYes) && s != string(BinaryNo) {
				verr.Add(spec.Name, fmt.Sprintf("Field %q must be \"Yes\" or \"No\".", spec.Name))
			}
		case KindCategorical:
			if _, ok := value.(string); !ok {
				verr.Add(spec.Name, fmt.Sprintf("Field %q must be a string.", spec.Name))
			}
		}
	}

	return verr
}

// NumberValue приводит числовое значение из UI (JSON или Go) к float64
func NumberValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("value %v of type %T is not a number", v, v)
	}
}
