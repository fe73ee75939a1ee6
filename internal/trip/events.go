package trip

import (
	"ride-sim-service/internal/domain"
	"time"
)

type EventKind string

const (
	EventStageChanged  EventKind = "stage_changed"
	EventVehicleMoved  EventKind = "vehicle_moved"
	EventMarkerPlaced  EventKind = "marker_placed"
	EventRouteChanged  EventKind = "route_changed"
	EventDriverArrived EventKind = "driver_arrived"
	EventDegraded      EventKind = "degraded"
	EventArrived       EventKind = "arrived"
	EventCancelled     EventKind = "cancelled"
)

type MarkerKind string

const (
	MarkerPickup      MarkerKind = "pickup"
	MarkerDestination MarkerKind = "destination"
	MarkerVehicle     MarkerKind = "vehicle"
)

// Marker is a map pin owned by the trip.
type Marker struct {
	Kind     MarkerKind
	Position domain.Coordinates
	Label    string
}

// Event is delivered to listeners on the scheduler thread, in emission order.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	TripID  string
	Stage   domain.TripStage
	At      time.Time
	Vehicle domain.VehicleState
	Marker  *Marker
	Route   *domain.Route
	Err     error
}

// Listener observes a trip. Implementations must not block; they run on the scheduler.
type Listener interface {
	OnTripEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnTripEvent(e Event) { f(e) }
