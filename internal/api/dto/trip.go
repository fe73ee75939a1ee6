package dto

import "time"

type RideRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ETALabel string `json:"eta_label"`
}

type StartTripRequest struct {
	Ride *RideRequest `json:"ride"`
}

type VehicleResponse struct {
	Coordinates []float64 `json:"coordinates"`
	Bearing     float64   `json:"bearing"`
	Stage       string    `json:"stage"`
	Progress    float64   `json:"progress"`
}

type MarkerResponse struct {
	Kind        string    `json:"kind"`
	Coordinates []float64 `json:"coordinates"`
	Label       string    `json:"label,omitempty"`
}

type RouteResponse struct {
	Stage string      `json:"stage"`
	Path  [][]float64 `json:"path"`
}

type CameraResponse struct {
	Center   []float64 `json:"center"`
	Zoom     float64   `json:"zoom"`
	EasingMS int64     `json:"easing_ms"`
}

type TripResponse struct {
	TripID      string           `json:"trip_id"`
	Ride        RideRequest      `json:"ride"`
	Icon        string           `json:"icon"`
	Pickup      LocationResponse `json:"pickup"`
	Destination LocationResponse `json:"destination"`

	Stage      string    `json:"stage"`
	StatusText string    `json:"status_text"`
	Cancelled  bool      `json:"cancelled"`
	StartedAt  time.Time `json:"started_at"`

	Vehicle   *VehicleResponse `json:"vehicle"`
	Markers   []MarkerResponse `json:"markers"`
	Routes    []RouteResponse  `json:"routes"`
	StartRide bool             `json:"start_ride"`
	Degraded  bool             `json:"degraded"`
	Error     string           `json:"error,omitempty"`

	Camera CameraResponse `json:"camera"`
}
