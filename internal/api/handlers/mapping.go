package handlers

import (
	"ride-sim-service/internal/api/dto"
	"ride-sim-service/internal/camera"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/overlay"
	"ride-sim-service/internal/trip"
	"strings"
)

func toLocationResponse(l domain.Location) dto.LocationResponse {
	return dto.LocationResponse{Coordinates: l.Coordinates.CoordsToList(), Address: l.Address}
}

func toRide(req *dto.RideRequest) domain.RideSelection {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return domain.DefaultRide()
	}
	return domain.RideSelection{ID: req.ID, Name: req.Name, Price: req.Price, ETALabel: req.ETALabel}
}

func toRideResponse(r domain.RideSelection) dto.RideRequest {
	return dto.RideRequest{ID: r.ID, Name: r.Name, Price: r.Price, ETALabel: r.ETALabel}
}

func toTripResponse(s trip.Snapshot, view camera.View) dto.TripResponse {
	res := dto.TripResponse{
		TripID:      s.TripID,
		Ride:        toRideResponse(s.Ride),
		Icon:        s.Icon,
		Pickup:      toLocationResponse(s.Pickup),
		Destination: toLocationResponse(s.Destination),
		Stage:       s.Stage.String(),
		StatusText:  s.StatusText,
		Cancelled:   s.Cancelled,
		StartedAt:   s.StartedAt,
		Markers:     make([]dto.MarkerResponse, 0, len(s.Markers)),
		Routes:      make([]dto.RouteResponse, 0, len(s.Routes)),
		StartRide:   s.StartRide,
		Degraded:    s.Degraded,
		Error:       s.Error,
		Camera: dto.CameraResponse{
			Center:   view.Center.CoordsToList(),
			Zoom:     view.Zoom,
			EasingMS: view.Easing.Milliseconds(),
		},
	}

	if s.Vehicle != nil {
		res.Vehicle = &dto.VehicleResponse{
			Coordinates: s.Vehicle.Position.CoordsToList(),
			Bearing:     s.Vehicle.BearingDegrees,
			Stage:       s.Vehicle.Stage.String(),
			Progress:    s.Vehicle.Progress,
		}
	}
	for _, m := range s.Markers {
		res.Markers = append(res.Markers, dto.MarkerResponse{
			Kind:        string(m.Kind),
			Coordinates: m.Position.CoordsToList(),
			Label:       m.Label,
		})
	}
	for _, rt := range s.Routes {
		path := make([][]float64, 0, len(rt.Path))
		for _, c := range rt.Path {
			path = append(path, c.CoordsToList())
		}
		res.Routes = append(res.Routes, dto.RouteResponse{Stage: rt.Stage.String(), Path: path})
	}

	return res
}

func toOverlayResponse(s overlay.State) dto.OverlayResponse {
	return dto.OverlayResponse{
		Active:           s.Active,
		Phase:            s.Phase.String(),
		Text:             s.Text,
		ProgressPercent:  s.ProgressPercent,
		VehiclePercent:   s.VehiclePercent,
		ConfirmAvailable: s.ConfirmAvailable,
		Ride:             toRideResponse(s.Ride),
	}
}
