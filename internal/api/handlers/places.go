package handlers

import (
	"net/http"
	"ride-sim-service/internal/api/dto"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/services"
	"strconv"

	"go.uber.org/zap"
)

// PlaceHandler serves autocomplete and reverse geocoding.
type PlaceHandler struct {
	Places *services.PlaceService
}

func (h *PlaceHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	found, err := h.Places.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		logger(r).Warn("suggest failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "place search is unavailable")
		return
	}

	res := dto.ListSuggestionsResponse{
		Suggestions: make([]dto.SuggestionResponse, 0, len(found)),
	}
	for _, s := range found {
		res.Suggestions = append(res.Suggestions, dto.SuggestionResponse{
			ID:          s.ID,
			Label:       s.Label,
			Coordinates: s.Coordinates.CoordsToList(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PlaceHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeError(w, r, http.StatusBadRequest, "lng and lat must be numbers")
		return
	}

	c := domain.Coordinates{Lon: lng, Lat: lat}
	if err := c.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AddressResponse{Address: h.Places.ReverseAddress(r.Context(), c)})
}
