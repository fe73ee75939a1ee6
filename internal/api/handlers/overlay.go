package handlers

import (
	"errors"
	"net/http"
	"ride-sim-service/internal/api/dto"
	"ride-sim-service/internal/services"

	"go.uber.org/zap"
)

// OverlayHandler drives the ride-request overlay.
type OverlayHandler struct {
	Session *services.Session
}

func (h *OverlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartOverlayRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.Session.StartOverlay(r.Context(), toRide(req.Ride))
	if err != nil {
		logger(r).Error("start overlay failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusCreated, toOverlayResponse(state))
}

func (h *OverlayHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.Session.OverlayState(r.Context())
	if err != nil {
		logger(r).Error("read overlay failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toOverlayResponse(state))
}

func (h *OverlayHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	state, err := h.Session.CancelOverlay(r.Context())
	if err != nil {
		logger(r).Error("cancel overlay failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toOverlayResponse(state))
}
