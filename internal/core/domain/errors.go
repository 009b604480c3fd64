package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPredictionNotFound - прогноз с таким id не сохранялся
var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrHistoryDisabled    = errors.New("prediction history is disabled")
)

// FieldViolation - одно нарушенное правило для конкретного поля
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError - вход некорректен, пользователь может исправить и повторить
type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Add добавляет нарушение
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// HasViolations - есть ли что возвращать
func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// Messages возвращает тексты нарушений в порядке проверки
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// ArtifactLoadError - модель или скейлер не загрузились при старте
type ArtifactLoadError struct {
	Artifact string
	Location string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("failed to load %s artifact from %q: %v", e.Artifact, e.Location, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// ShapeMismatchError - набор или порядок колонок не совпадает с тем, что ждет скейлер/модель
type ShapeMismatchError struct {
	Stage    string
	Expected []string
	Got      []string
	Detail   string
}

func (e *ShapeMismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s shape mismatch: %s", e.Stage, e.Detail)
	}
	return fmt.Sprintf("%s shape mismatch: expected columns %v, got %v", e.Stage, e.Expected, e.Got)
}

// InferenceError - модель упала при вычислении. Причина только для логов.
type InferenceError struct {
	Err error
}

// PublicInferenceMessage - единое сообщение для пользователя
const PublicInferenceMessage = "prediction failed"

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", PublicInferenceMessage, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
