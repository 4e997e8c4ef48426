package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminauthsvc "github.com/EricSteeles/Curb-Alert/internal/services/adminauth"
	modsvc "github.com/EricSteeles/Curb-Alert/internal/services/moderation"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

type AdminHandler struct {
	auth       *adminauthsvc.Service
	moderation *modsvc.Service
}

func NewAdminHandler(auth *adminauthsvc.Service, moderation *modsvc.Service) *AdminHandler {
	return &AdminHandler{auth: auth, moderation: moderation}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is unavailable")
		return
	}

	var req dto.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Password)
	if err != nil {
		handleAdminAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminLoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.Session.ExpiresAt,
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is unavailable")
		return
	}

	session, ok := adminauthsvc.SessionFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), session.SID); err != nil {
		handleAdminAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *AdminHandler) ReportsList(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	reports, err := h.moderation.ListReports(r.Context())
	if err != nil {
		handleModerationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportsListResponse{Reports: dto.ReportsFromModels(reports)})
}

func (h *AdminHandler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	session, ok := adminauthsvc.SessionFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ReviewReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	report, err := h.moderation.ReviewReport(r.Context(), chi.URLParam(r, "id"), req.Resolution, session.Username)
	if err != nil {
		handleModerationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportFromModel(report))
}

func (h *AdminHandler) FlaggedItems(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	items, err := h.moderation.FlaggedItems(r.Context())
	if err != nil {
		handleModerationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ItemsListResponse{Items: dto.ItemsFromModels(items)})
}

func (h *AdminHandler) FlagItem(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	var req dto.FlagItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.moderation.SetItemFlag(r.Context(), chi.URLParam(r, "id"), req.Flagged); err != nil {
		handleModerationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	session, ok := adminauthsvc.SessionFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.moderation.DeleteReportedItem(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("report_id"), session.Username); err != nil {
		handleModerationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.moderation == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	stats, err := h.moderation.GetStats(r.Context())
	if err != nil {
		handleModerationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminStatsResponse{
		TotalItems:     stats.TotalItems,
		FlaggedItems:   stats.FlaggedItems,
		TotalReports:   stats.TotalReports,
		PendingReports: stats.PendingReports,
	})
}

func handleAdminAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminauthsvc.ErrUnauthorized):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, adminauthsvc.ErrSessionExpired):
		writeUnauthorized(w, "SESSION_EXPIRED", "session expired")
	case errors.Is(err, adminauthsvc.ErrUnavailable):
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is unavailable")
	default:
		writeInternal(w, "INTERNAL_ERROR", "admin operation failed")
	}
}
