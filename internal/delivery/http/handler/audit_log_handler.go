package handler

import (
	"net/http"
	"strconv"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/usecase"
	"findmyclinic/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// ListLogs returns paginated audit entries, admin only
func (h *AuditLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	req := &dto.ListAuditLogsRequest{
		Action: r.URL.Query().Get("action"),
		Limit:  limit,
		Offset: offset,
	}

	logs, err := h.auditLogUsecase.ListLogs(r.Context(), req)
	if err != nil {
		response.InternalServerError(w, "Failed to list audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
