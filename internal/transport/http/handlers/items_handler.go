package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	analyticsvc "github.com/EricSteeles/Curb-Alert/internal/services/analytics"
	itemsvc "github.com/EricSteeles/Curb-Alert/internal/services/items"
	"github.com/EricSteeles/Curb-Alert/internal/services/search"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

type ItemsHandler struct {
	service       *itemsvc.Service
	analytics     *analyticsvc.Service
	defaultRadius float64
}

func NewItemsHandler(service *itemsvc.Service, analytics *analyticsvc.Service, defaultRadiusMiles int) *ItemsHandler {
	if defaultRadiusMiles <= 0 {
		defaultRadiusMiles = 25
	}
	return &ItemsHandler{
		service:       service,
		analytics:     analytics,
		defaultRadius: float64(defaultRadiusMiles),
	}
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	query := r.URL.Query()
	criteria := search.Criteria{
		Keyword:        query.Get("q"),
		CustomCategory: query.Get("custom_category"),
		Location:       query.Get("location"),
	}

	if raw := query.Get("category"); raw != "" {
		category, ok := enums.ParseCategory(raw)
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", "unknown category")
			return
		}
		criteria.Category = category
	}

	center, radius, err := parseRadiusQuery(query.Get("lat"), query.Get("lng"), query.Get("radius"), h.defaultRadius)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := h.service.List(r.Context(), criteria, center, radius)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	groups := h.service.Partition(items)
	httperrors.Write(w, http.StatusOK, dto.ItemsListResponse{
		Items: dto.ItemsFromModels(items),
		Groups: dto.ItemGroups{
			Available: dto.ItemsFromModels(groups.Available),
			Claimed:   dto.ItemsFromModels(groups.Claimed),
			Expired:   dto.ItemsFromModels(groups.Expired),
		},
	})
}

func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	if h.analytics != nil {
		h.analytics.RecordItemView(r.Context(), item.ID)
	}

	httperrors.Write(w, http.StatusOK, dto.ItemFromModel(item))
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	var req dto.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	draft := model.ItemDraft{
		OwnerID:        owner,
		Title:          req.Title,
		Description:    req.Description,
		Category:       enums.Category(req.Category),
		CustomCategory: req.CustomCategory,
		Tags:           req.Tags,
		Condition:      enums.Condition(req.Condition),
		Location:       req.Location,
		Coordinates:    coordinatesFromPayload(req.Coordinates),
		Contact:        req.Contact,
		Photos:         req.Photos,
	}

	item, flags, err := h.service.Create(r.Context(), draft)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateItemResponse{
		Item:            dto.ItemFromModel(item),
		ModerationFlags: flags,
	})
}

func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	var req dto.UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), owner, itemsvc.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		CustomCategory: req.CustomCategory,
		Tags:           req.Tags,
		Condition:      req.Condition,
		Location:       req.Location,
		Coordinates:    coordinatesFromPayload(req.Coordinates),
		Contact:        req.Contact,
		Photos:         req.Photos,
	})
	if err != nil {
		handleItemsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ItemFromModel(item))
}

func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	var req dto.SetItemStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), owner, req.Status)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ItemFromModel(item))
}

func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "X-Owner-ID header is required")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		handleItemsError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseRadiusQuery(latRaw, lngRaw, radiusRaw string, defaultRadius float64) (*model.Coordinates, float64, error) {
	if latRaw == "" && lngRaw == "" {
		return nil, 0, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, 0, errors.New("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, 0, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, 0, errors.New("lng must be a number")
	}

	radius := defaultRadius
	if radiusRaw != "" {
		parsed, err := strconv.ParseFloat(radiusRaw, 64)
		if err != nil || parsed <= 0 {
			return nil, 0, errors.New("radius must be a positive number")
		}
		radius = parsed
	}

	return &model.Coordinates{Lat: lat, Lng: lng}, radius, nil
}

func coordinatesFromPayload(payload *dto.CoordinatesPayload) *model.Coordinates {
	if payload == nil {
		return nil
	}
	return &model.Coordinates{Lat: payload.Lat, Lng: payload.Lng}
}

func handleItemsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, itemsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, itemsvc.ErrNotFound):
		writeNotFound(w, "ITEM_NOT_FOUND", "item not found")
	case errors.Is(err, itemsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "only the item owner may do this")
	default:
		writeInternal(w, "INTERNAL_ERROR", "item operation failed")
	}
}
