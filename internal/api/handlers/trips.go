package handlers

import (
	"errors"
	"net/http"
	"ride-sim-service/internal/api/dto"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/services"

	"go.uber.org/zap"
)

// TripHandler starts, reports and cancels the simulated trip.
type TripHandler struct {
	Session *services.Session
}

func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartTripRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.Session.StartTrip(r.Context(), toRide(req.Ride))
	if err != nil {
		if errors.Is(err, domain.ErrLocationUnavailable) {
			writeError(w, r, http.StatusUnprocessableEntity, "set pickup and destination before requesting a ride")
			return
		}
		logger(r).Error("start trip failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toTripResponse(snap, h.Session.Camera()))
}

func (h *TripHandler) Current(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Session.CurrentTrip(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoTrip) {
			writeError(w, r, http.StatusNotFound, "no active trip")
			return
		}
		logger(r).Error("read trip failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toTripResponse(snap, h.Session.Camera()))
}

func (h *TripHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.CancelTrip(r.Context()); err != nil {
		if errors.Is(err, services.ErrNoTrip) {
			writeError(w, r, http.StatusNotFound, "no active trip")
			return
		}
		logger(r).Error("cancel trip failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
