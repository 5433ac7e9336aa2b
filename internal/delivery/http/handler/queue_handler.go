package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/response"
	"findmyclinic/pkg/validator"
)

type QueueHandler struct {
	queueStatusUsecase usecase.QueueStatusUsecase
	validator          *validator.CustomValidator
}

func NewQueueHandler(queueStatusUsecase usecase.QueueStatusUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueStatusUsecase: queueStatusUsecase,
		validator:          validator,
	}
}

// GetStatus is a POST so anonymous clients can send their stored refs in
// the body; authenticated clients may send an empty body.
func (h *QueueHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actor := resolveActor(r.Context(), req.TokenRefs)

	status, err := h.queueStatusUsecase.GetStatus(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to get queue status")
		return
	}

	response.Success(w, http.StatusOK, "Queue status retrieved successfully", status)
}
