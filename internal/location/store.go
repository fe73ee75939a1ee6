// Package location holds the rider's pickup and destination between requests.
package location

import (
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/trip"
	"sync"
)

// Store is the shared holder of pickup and destination. Entries are replaced wholesale.
type Store struct {
	mu          sync.RWMutex
	pickup      *domain.Location
	destination *domain.Location
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetPickup(loc domain.Location) error {
	if err := loc.Coordinates.Validate(); err != nil {
		return fmt.Errorf("set pickup: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickup = &loc
	return nil
}

func (s *Store) SetDestination(loc domain.Location) error {
	if err := loc.Coordinates.Validate(); err != nil {
		return fmt.Errorf("set destination: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.destination = &loc
	return nil
}

// Pickup returns a copy of the pickup, or false if none was set.
func (s *Store) Pickup() (domain.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pickup == nil {
		return domain.Location{}, false
	}
	return *s.pickup, true
}

// Destination returns a copy of the destination, or false if none was set.
func (s *Store) Destination() (domain.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destination == nil {
		return domain.Location{}, false
	}
	return *s.destination, true
}

// Reset forgets both locations.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickup = nil
	s.destination = nil
}

// TripContext snapshots both locations for a new trip. A trip cannot start
// until the rider has supplied both.
func (s *Store) TripContext(ride domain.RideSelection) (trip.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pickup == nil {
		return trip.Context{}, fmt.Errorf("trip context: pickup not set: %w", domain.ErrLocationUnavailable)
	}
	if s.destination == nil {
		return trip.Context{}, fmt.Errorf("trip context: destination not set: %w", domain.ErrLocationUnavailable)
	}

	return trip.Context{
		Pickup:      *s.pickup,
		Destination: *s.destination,
		Ride:        ride,
	}, nil
}
