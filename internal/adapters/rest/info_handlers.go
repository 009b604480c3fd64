package rest

import (
	"net/http"

	usecases_port "price-estimator-service/internal/core/port/usecases_port"
)

type InfoHandler struct {
	formOptionsUC usecases_port.GetFormOptionsUseCasePort
	modelInfoUC   usecases_port.GetModelInfoUseCasePort
}

func NewInfoHandler(formOptionsUC usecases_port.GetFormOptionsUseCasePort,
	modelInfoUC usecases_port.GetModelInfoUseCasePort) *InfoHandler {
	return &InfoHandler{
		formOptionsUC: formOptionsUC,
		modelInfoUC:   modelInfoUC,
	}
}

// GetFormOptions - GET /api/v1/form-options
func (h *InfoHandler) GetFormOptions(w http.ResponseWriter, r *http.Request) {
	options := h.formOptionsUC.Execute(r.Context())

	response := FormOptionsResponse{Fields: make([]FieldOptionResponse, 0, len(options))}
	for _, o := range options {
		response.Fields = append(response.Fields, FieldOptionResponse{
			Name:      o.Name,
			Kind:      o.Kind.String(),
			Options:   o.Options,
			Min:       o.Min,
			Max:       o.Max,
			Optional:  o.Optional,
			DependsOn: o.DependsOn,
		})
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetModelInfo - GET /api/v1/model
func (h *InfoHandler) GetModelInfo(w http.ResponseWriter, r *http.Request) {
	info := h.modelInfoUC.Execute(r.Context())

	RespondWithJSON(w, http.StatusOK, ModelInfoResponse{
		ModelKind:     info.Model.Kind,
		ModelVersion:  info.Model.Version,
		Description:   info.Model.Description,
		FeatureCount:  info.Model.FeatureCount,
		ScalerKind:    info.ScalerKind,
		ScaledColumns: info.ScaledColumns,
		Band:          info.Band.String(),
		BinaryPolicy:  info.BinaryPolicy.String(),
		Currency:      info.Currency,
	})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
