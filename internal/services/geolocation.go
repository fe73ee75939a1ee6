package services

import (
	"errors"
	"ride-sim-service/internal/domain"
)

var geolocationMessages = map[domain.GeolocationReason]string{
	domain.GeolocationPermissionDenied:    "Location access was denied. Allow location access or enter your pickup manually.",
	domain.GeolocationPositionUnavailable: "Your location is currently unavailable. Enter your pickup manually.",
	domain.GeolocationTimeout:             "Finding your location took too long. Try again or enter your pickup manually.",
	domain.GeolocationUnsupported:         "Location is not supported on this device. Enter your pickup manually.",
}

const genericLocationMessage = "We could not determine your location. Enter your pickup manually."

// GeolocationMessage maps a location failure to the text shown to the rider.
// Nothing is retried; the rider has to act.
func GeolocationMessage(err error) string {
	var gerr *domain.GeolocationError
	if errors.As(err, &gerr) {
		if msg, ok := geolocationMessages[gerr.Reason]; ok {
			return msg
		}
	}
	return genericLocationMessage
}
