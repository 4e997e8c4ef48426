package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	modsvc "github.com/EricSteeles/Curb-Alert/internal/services/moderation"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

type ReportHandler struct {
	service *modsvc.Service
}

func NewReportHandler(service *modsvc.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	reporter, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	var req dto.ReportItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	report, err := h.service.ReportItem(r.Context(), chi.URLParam(r, "id"), reporter, req.Reason, req.Description)
	if err != nil {
		handleModerationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ReportFromModel(report))
}

func handleModerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, modsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, modsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "resource not found")
	case errors.Is(err, modsvc.ErrAlreadyReviewed):
		writeConflict(w, "REPORT_ALREADY_REVIEWED", "report is already reviewed")
	case errors.Is(err, modsvc.ErrRateLimited):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
			Code:    "RATE_LIMITED",
			Message: "report limit reached, try again later",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "moderation operation failed")
	}
}
