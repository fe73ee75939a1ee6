package domain

import (
	"errors"
	"fmt"
)

// Route is a routed polyline belonging to one (origin, destination) pair and one trip stage.
// Path order is significant: the first point is the origin and the last the destination,
// as returned by the directions service.
type Route struct {
	Stage       TripStage
	Origin      Coordinates
	Destination Coordinates
	Path        []Coordinates
}

// Validate checks the route is animatable.
func (r Route) Validate() error {
	if len(r.Path) < 2 {
		return fmt.Errorf("route for stage %s: %w", r.Stage, errors.New("path needs at least two points"))
	}
	for i, c := range r.Path {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("route for stage %s: point %d: %w", r.Stage, i, err)
		}
	}
	return nil
}

// Matches reports whether the route was fetched for exactly this key.
func (r Route) Matches(stage TripStage, origin, destination Coordinates) bool {
	return r.Stage == stage && r.Origin.Equal(origin) && r.Destination.Equal(destination)
}

// Clone returns a copy whose Path does not alias the receiver's.
func (r Route) Clone() Route {
	out := r
	out.Path = append([]Coordinates(nil), r.Path...)
	return out
}
