package trip

import (
	"ride-sim-service/internal/domain"
	"time"
)

var statusTexts = map[domain.TripStage]string{
	domain.StageSearchingDriver:     "Finding a nearby driver",
	domain.StageDriverFound:         "Driver found! Getting ready",
	domain.StageDriverToPickup:      "Driver on the way",
	domain.StagePickupToDestination: "Driver has arrived",
	domain.StageArrived:             "Arrived at destination",
}

// StatusText is the rider-facing line for a stage.
func StatusText(stage domain.TripStage) string {
	return statusTexts[stage]
}

// Snapshot is a copy of the trip's observable state.
type Snapshot struct {
	TripID      string
	Ride        domain.RideSelection
	Icon        string
	Pickup      domain.Location
	Destination domain.Location

	Stage      domain.TripStage
	StatusText string
	Started    bool
	Cancelled  bool
	StartedAt  time.Time
	StageAge   time.Duration

	Vehicle   *domain.VehicleState
	Markers   []Marker
	Routes    []domain.Route
	StartRide bool
	Degraded  bool
	Error     string
}

func (t *Trip) Snapshot() Snapshot {
	s := Snapshot{
		TripID:      t.id,
		Ride:        t.tc.Ride,
		Icon:        t.tc.Ride.Icon(),
		Pickup:      t.tc.Pickup,
		Destination: t.tc.Destination,
		Stage:       t.stage,
		StatusText:  StatusText(t.stage),
		Started:     t.started,
		Cancelled:   t.cancelled,
		StartedAt:   t.startedAt,
		Routes:      t.routes.All(),
		StartRide:   t.driverArrived,
		Degraded:    t.degraded,
	}
	if t.started {
		s.StageAge = t.sched.Now().Sub(t.stageEnteredAt)
	}
	if t.err != nil {
		s.Error = t.err.Error()
	}

	for _, kind := range []MarkerKind{MarkerPickup, MarkerDestination} {
		if m, ok := t.markers[kind]; ok {
			s.Markers = append(s.Markers, m)
		}
	}
	if t.hasVehicle {
		v := t.vehicle
		s.Vehicle = &v
		s.Markers = append(s.Markers, Marker{Kind: MarkerVehicle, Position: v.Position, Label: s.Icon})
	}

	return s
}
