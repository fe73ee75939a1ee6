package handlers

import (
	"net/http"
	"ride-sim-service/internal/api/dto"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/location"
	"ride-sim-service/internal/services"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LocationHandler records the rider's pickup and destination.
type LocationHandler struct {
	Store  *location.Store
	Places *services.PlaceService
}

func (h *LocationHandler) Set(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != "pickup" && kind != "destination" {
		writeError(w, r, http.StatusNotFound, "unknown location kind")
		return
	}

	var req dto.SetLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.GeolocationError != "" {
		reason, err := domain.ParseGeolocationReason(req.GeolocationError)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		gerr := &domain.GeolocationError{Reason: reason}
		logger(r).Info("geolocation unavailable", zap.String("kind", kind), zap.Error(gerr))
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
			"error": services.GeolocationMessage(gerr),
			"code":  string(reason),
		})
		return
	}

	c, err := domain.CoordinatesFromList(req.Coordinates)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	loc := domain.Location{Coordinates: c, Address: strings.TrimSpace(req.Address)}
	if loc.Address == "" {
		loc.Address = h.Places.ReverseAddress(r.Context(), c)
	}

	if kind == "pickup" {
		err = h.Store.SetPickup(loc)
	} else {
		err = h.Store.SetDestination(loc)
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, toLocationResponse(loc))
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	var res dto.LocationsResponse
	if p, ok := h.Store.Pickup(); ok {
		l := toLocationResponse(p)
		res.Pickup = &l
	}
	if d, ok := h.Store.Destination(); ok {
		l := toLocationResponse(d)
		res.Destination = &l
	}
	writeJSON(w, r, http.StatusOK, res)
}
