package dto

type StartOverlayRequest struct {
	Ride *RideRequest `json:"ride"`
}

type OverlayResponse struct {
	Active           bool        `json:"active"`
	Phase            string      `json:"phase"`
	Text             string      `json:"text"`
	ProgressPercent  float64     `json:"progress_percent"`
	VehiclePercent   float64     `json:"vehicle_percent"`
	ConfirmAvailable bool        `json:"confirm_available"`
	Ride             RideRequest `json:"ride"`
}
