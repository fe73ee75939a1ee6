package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// CoordinatesFromList parses a [lon, lat] pair as returned by geocoding and routing APIs.
func CoordinatesFromList(v []float64) (Coordinates, error) {
	if len(v) != 2 {
		return Coordinates{}, fmt.Errorf("%w: expected [lon, lat], got %d values", ErrInvalidCoordinate, len(v))
	}
	c := Coordinates{Lon: v[0], Lat: v[1]}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Validate rejects NaN, infinite and out-of-range values so they never reach the animator.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("%w: non-finite value lon=%v lat=%v", ErrInvalidCoordinate, c.Lon, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, c.Lat)
	}
	return nil
}

func (c Coordinates) Equal(o Coordinates) bool { return c.Lon == o.Lon && c.Lat == o.Lat }

// Offset returns a copy shifted by the given deltas in degrees.
func (c Coordinates) Offset(dLon, dLat float64) Coordinates {
	return Coordinates{Lon: c.Lon + dLon, Lat: c.Lat + dLat}
}

// String renders the coordinate as "lat, lng", the address fallback shown to riders.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}
