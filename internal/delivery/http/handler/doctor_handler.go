package handler

import (
	"net/http"

	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/response"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
	}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	specialization := r.URL.Query().Get("specialization")

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), search, specialization)
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) ListSpecializations(w http.ResponseWriter, r *http.Request) {
	specializations, err := h.doctorUsecase.ListSpecializations(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specializations)
}
