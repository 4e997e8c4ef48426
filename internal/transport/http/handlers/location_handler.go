package handlers

import (
	"errors"
	"net/http"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	geosvc "github.com/EricSteeles/Curb-Alert/internal/services/geo"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

type LocationHandler struct {
	service *geosvc.Service
}

func NewLocationHandler(service *geosvc.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) NearestCity(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "GEO_SERVICE_UNAVAILABLE", "geo service is unavailable")
		return
	}

	var req dto.NearestCityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeBadRequest(w, "VALIDATION_ERROR", "coordinates out of range")
		return
	}

	city, distance, err := h.service.NearestCity(model.Coordinates{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		if errors.Is(err, geosvc.ErrNoCities) {
			writeInternal(w, "GEO_NOT_CONFIGURED", "no cities configured")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "geo operation failed")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NearestCityResponse{
		ID:            city.ID,
		Name:          city.Name,
		DistanceMiles: distance,
	})
}
