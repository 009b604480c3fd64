package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/contracts"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	usecases_port "price-estimator-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxRequestBodyBytes = 64 << 10

type PredictionHandler struct {
	estimateUC      usecases_port.EstimatePriceUseCasePort
	getPredictionUC usecases_port.GetPredictionUseCasePort
}

func NewPredictionHandler(estimateUC usecases_port.EstimatePriceUseCasePort,
	getPredictionUC usecases_port.GetPredictionUseCasePort) *PredictionHandler {
	return &PredictionHandler{
		estimateUC:      estimateUC,
		getPredictionUC: getPredictionUC,
	}
}

// CreatePrediction - POST /api/v1/predictions
func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := contracts.ValidateRawProperty(body); err != nil {
		logger.Warn("Request body does not match the contract", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// числа оставляем json.Number, чтобы проверка почтового индекса видела дробную часть
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	estimate, err := h.estimateUC.Execute(r.Context(), domain.RawRecord(raw))
	if err != nil {
		writePipelineError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, toPredictionResponse(estimate, false))
}

// GetPrediction - GET /api/v1/predictions/{predictionID}
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "predictionID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid prediction ID format")
		return
	}

	estimate, err := h.getPredictionUC.Execute(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrPredictionNotFound):
		WriteJSONError(w, http.StatusNotFound, "Prediction not found")
		return
	case errors.Is(err, domain.ErrHistoryDisabled):
		WriteJSONError(w, http.StatusServiceUnavailable, "Prediction history is not enabled")
		return
	case err != nil:
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve prediction")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPredictionResponse(estimate, true))
}

// writePipelineError переводит ошибки конвейера в HTTP. Причины уже
// залогированы в use case и наружу не уходят.
func writePipelineError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		shapeErr      *domain.ShapeMismatchError
		inferenceErr  *domain.InferenceError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "Validation failed",
			Violations: validationErr.Violations,
		})
	case errors.As(err, &shapeErr):
		WriteJSONError(w, http.StatusInternalServerError, "Prediction pipeline is misconfigured")
	case errors.As(err, &inferenceErr):
		WriteJSONError(w, http.StatusInternalServerError, domain.PublicInferenceMessage)
	default:
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
