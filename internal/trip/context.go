package trip

import (
	"fmt"
	"ride-sim-service/internal/domain"
	"time"
)

// Synthetic driver start, roughly 1 km north-east of pickup.
const (
	DriverOffsetLon = 0.012
	DriverOffsetLat = 0.009
)

// Context is what a trip is started with. It is copied at start, so later
// changes to the rider's locations do not affect a trip in flight.
type Context struct {
	Pickup      domain.Location
	Destination domain.Location
	Ride        domain.RideSelection
}

func (c Context) Validate() error {
	if err := c.Pickup.Coordinates.Validate(); err != nil {
		return fmt.Errorf("trip pickup: %w", err)
	}
	if err := c.Destination.Coordinates.Validate(); err != nil {
		return fmt.Errorf("trip destination: %w", err)
	}
	return nil
}

// DriverStart is where the simulated driver begins.
func (c Context) DriverStart() domain.Coordinates {
	return c.Pickup.Coordinates.Offset(DriverOffsetLon, DriverOffsetLat)
}

// Timings are the stage delays and animation durations of a trip.
type Timings struct {
	SearchDelay         time.Duration
	FoundDelay          time.Duration
	DriverToPickup      time.Duration
	PickupToDestination time.Duration
	FetchTimeout        time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		SearchDelay:         1500 * time.Millisecond,
		FoundDelay:          1500 * time.Millisecond,
		DriverToPickup:      50 * time.Second,
		PickupToDestination: 50 * time.Second,
		FetchTimeout:        10 * time.Second,
	}
}

// WithDefaults fills every non-positive field from DefaultTimings.
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	if t.SearchDelay <= 0 {
		t.SearchDelay = d.SearchDelay
	}
	if t.FoundDelay <= 0 {
		t.FoundDelay = d.FoundDelay
	}
	if t.DriverToPickup <= 0 {
		t.DriverToPickup = d.DriverToPickup
	}
	if t.PickupToDestination <= 0 {
		t.PickupToDestination = d.PickupToDestination
	}
	if t.FetchTimeout <= 0 {
		t.FetchTimeout = d.FetchTimeout
	}
	return t
}
