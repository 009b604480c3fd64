package rest

import (
	"time"

	"price-estimator-service/internal/core/domain"
)

type ErrorResponse struct {
	Error      string                  `json:"error"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}

// PredictionResponse - ответ на оценку и на чтение из истории
type PredictionResponse struct {
	ID         string         `json:"id"`
	Prediction float64        `json:"prediction"`
	Low        *float64       `json:"low,omitempty"`
	High       *float64       `json:"high,omitempty"`
	Display    string         `json:"display"`
	Currency   string         `json:"currency"`
	Band       string         `json:"band"`
	CreatedAt  time.Time      `json:"created_at"`
	Input      map[string]any `json:"input,omitempty"`
}

func toPredictionResponse(e *domain.PriceEstimate, withInput bool) PredictionResponse {
	resp := PredictionResponse{
		ID:         e.ID.String(),
		Prediction: e.Result.Point,
		Display:    e.Display,
		Currency:   e.Currency,
		Band:       e.Band.String(),
		CreatedAt:  e.CreatedAt,
	}
	if e.Result.IsRange {
		low, high := e.Result.Min, e.Result.Max
		resp.Low = &low
		resp.High = &high
	}
	if withInput {
		resp.Input = e.Input
	}
	return resp
}

type FieldOptionResponse struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Options   []string `json:"options,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Optional  bool     `json:"optional"`
	DependsOn string   `json:"depends_on,omitempty"`
}

type FormOptionsResponse struct {
	Fields []FieldOptionResponse `json:"fields"`
}

type ModelInfoResponse struct {
	ModelKind     string   `json:"model_kind"`
	ModelVersion  int      `json:"model_version"`
	Description   string   `json:"description,omitempty"`
	FeatureCount  int      `json:"feature_count"`
	ScalerKind    string   `json:"scaler_kind"`
	ScaledColumns []string `json:"scaled_columns"`
	Band          string   `json:"band"`
	BinaryPolicy  string   `json:"binary_encoding"`
	Currency      string   `json:"currency"`
}
