package domain

// Location is a named point supplied by the rider (pickup or destination).
// Replaced wholesale, never mutated in place.
type Location struct {
	Coordinates Coordinates
	Address     string
}

// Suggestion is a single geocoding result, most relevant first.
type Suggestion struct {
	ID          string
	Label       string
	Coordinates Coordinates
}

// VehicleState is the animated vehicle as last emitted by the interpolator.
type VehicleState struct {
	Position       Coordinates
	BearingDegrees float64
	Stage          TripStage
	Progress       float64
}
