package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/service"
	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/response"
	"findmyclinic/pkg/validator"
)

type SymptomHandler struct {
	symptomUsecase usecase.SymptomAnalysisUsecase
	validator      *validator.CustomValidator
}

func NewSymptomHandler(symptomUsecase usecase.SymptomAnalysisUsecase, validator *validator.CustomValidator) *SymptomHandler {
	return &SymptomHandler{
		symptomUsecase: symptomUsecase,
		validator:      validator,
	}
}

func (h *SymptomHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeSymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	analysis, err := h.symptomUsecase.Analyze(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidImageData):
			response.Error(w, http.StatusBadRequest, "Image data is not valid base64", nil)
		case errors.Is(err, service.ErrAPIKeyInvalid):
			response.Error(w, http.StatusServiceUnavailable, "Symptom analysis is temporarily unavailable", nil)
		default:
			response.InternalServerError(w, "Failed to analyze symptoms")
		}
		return
	}

	response.Success(w, http.StatusOK, "Symptoms analyzed successfully", analysis)
}
