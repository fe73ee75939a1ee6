package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationUnavailable blocks a trip from starting until the rider acts.
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrGeocodingFailed     = errors.New("geocoding failed")
	ErrDirectionsFailed    = errors.New("directions failed")
	ErrNoRoute             = errors.New("no route returned")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
)

// GeolocationReason is the device geolocation failure taxonomy.
type GeolocationReason string

const (
	GeolocationPermissionDenied    GeolocationReason = "permission_denied"
	GeolocationPositionUnavailable GeolocationReason = "position_unavailable"
	GeolocationTimeout             GeolocationReason = "timeout"
	GeolocationUnsupported         GeolocationReason = "unsupported"
)

// ParseGeolocationReason converts a client-reported code into a GeolocationReason.
func ParseGeolocationReason(s string) (GeolocationReason, error) {
	switch r := GeolocationReason(s); r {
	case GeolocationPermissionDenied, GeolocationPositionUnavailable, GeolocationTimeout, GeolocationUnsupported:
		return r, nil
	}
	return "", fmt.Errorf("invalid geolocation error code: %s", s)
}

// GeolocationError reports why the device position could not be obtained.
type GeolocationError struct {
	Reason GeolocationReason
}

func (e *GeolocationError) Error() string {
	return fmt.Sprintf("geolocation: %s", e.Reason)
}

func (e *GeolocationError) Unwrap() error { return ErrLocationUnavailable }
