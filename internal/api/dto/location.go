package dto

// SetLocationRequest carries either a position or the reason the device could not
// provide one.
type SetLocationRequest struct {
	Coordinates      []float64 `json:"coordinates"`
	Address          string    `json:"address"`
	GeolocationError string    `json:"geolocation_error"`
}

type LocationResponse struct {
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

type LocationsResponse struct {
	Pickup      *LocationResponse `json:"pickup"`
	Destination *LocationResponse `json:"destination"`
}
