package domain

// RideSelection is the ride option the rider picked. The engine only passes it through,
// except for the vehicle icon it derives from the id.
type RideSelection struct {
	ID       string
	Name     string
	Price    string
	ETALabel string
}

var rideIcons = map[string]string{
	"auto":    "🛺",
	"moto":    "🏍️",
	"uber-go": "🚗",
	"courier": "📦",
}

// Icon returns the marker glyph for the ride, defaulting to a car.
func (r RideSelection) Icon() string {
	if icon, ok := rideIcons[r.ID]; ok {
		return icon
	}
	return "🚗"
}

// DefaultRide is used when the caller does not send a selection.
func DefaultRide() RideSelection {
	return RideSelection{ID: "auto", Name: "Auto", Price: "₹81.84", ETALabel: "2-3 mins"}
}
