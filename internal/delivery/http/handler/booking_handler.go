package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/response"
	"findmyclinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actor := resolveActor(r.Context(), req.TokenRefs)

	result, err := h.bookingUsecase.CreateToken(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrClinicNotFound):
			response.NotFound(w, "Clinic not found")
		case errors.Is(err, usecase.ErrClinicClosed):
			response.Error(w, http.StatusConflict, "Clinic is currently closed", nil)
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found at this clinic")
		case errors.Is(err, usecase.ErrDuplicateRequest):
			response.Error(w, http.StatusTooManyRequests, "An identical booking request is already in progress", nil)
		default:
			response.InternalServerError(w, "Failed to create queue token")
		}
		return
	}

	if result.Conflict != nil {
		response.Conflict(w, "You already have an active queue token", result)
		return
	}

	response.Success(w, http.StatusCreated, "Queue token created successfully", result)
}

func (h *BookingHandler) CancelToken(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tokenID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid token ID", nil)
		return
	}

	// Anonymous callers prove ownership with their stored refs;
	// a missing body is fine for authenticated callers.
	var req dto.CancelTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	actor := resolveActor(r.Context(), req.TokenRefs)
	refs := converter.TokenRefsFromRequests(req.TokenRefs)

	if err := h.bookingUsecase.CancelToken(r.Context(), actor, tokenID, refs); err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenNotFound):
			response.NotFound(w, "Queue token not found")
		case errors.Is(err, usecase.ErrTokenNotOwned):
			response.Forbidden(w, "Queue token does not belong to you")
		case errors.Is(err, usecase.ErrTokenNotCancellable):
			response.Error(w, http.StatusConflict, "Queue token can no longer be cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel queue token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue token cancelled successfully", nil)
}
