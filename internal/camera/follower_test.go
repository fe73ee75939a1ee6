package camera

import (
	"ride-sim-service/internal/adapters/directions"
	"ride-sim-service/internal/animation"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/routes"
	"ride-sim-service/internal/trip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowerIgnoresOtherEvents(t *testing.T) {
	vp := NewRecordingViewport(domain.Coordinates{Lon: 77.59, Lat: 12.97}, 14)
	f := NewFollower(vp, 100*time.Millisecond)

	f.OnTripEvent(trip.Event{Kind: trip.EventStageChanged})
	f.OnTripEvent(trip.Event{Kind: trip.EventMarkerPlaced})

	v := vp.View()
	assert.Equal(t, 0, v.Updates)
	assert.Equal(t, domain.Coordinates{Lon: 77.59, Lat: 12.97}, v.Center)
	assert.Equal(t, 14.0, v.Zoom)
}

func TestFollowerTracksVehicle(t *testing.T) {
	pickup := domain.Coordinates{Lon: 77.6101, Lat: 12.9751}
	tc := trip.Context{
		Pickup:      domain.Location{Coordinates: pickup},
		Destination: domain.Location{Coordinates: domain.Coordinates{Lon: 77.6408, Lat: 12.9719}},
		Ride:        domain.DefaultRide(),
	}

	m := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	vp := NewRecordingViewport(pickup, 15)
	tr, err := trip.New(tc, trip.Deps{
		Scheduler: m,
		Routes:    routes.NewRepository(directions.NewMockProvider(nil), nil),
		Animator:  animation.NewAnimator(m, 100*time.Millisecond),
		Listeners: []trip.Listener{NewFollower(vp, 100*time.Millisecond)},
	}, trip.DefaultTimings())
	require.NoError(t, err)
	require.NoError(t, tr.Start())

	m.Advance(3 * time.Second)
	assert.Equal(t, tc.DriverStart(), vp.View().Center)

	m.Advance(10 * time.Second)
	v, ok := tr.Vehicle()
	require.True(t, ok)

	view := vp.View()
	assert.Equal(t, v.Position, view.Center)
	assert.Equal(t, 100*time.Millisecond, view.Easing)
	assert.Equal(t, 101, view.Updates)
}

func TestJumpTo(t *testing.T) {
	vp := NewRecordingViewport(domain.Coordinates{}, 12)
	vp.EaseTo(domain.Coordinates{Lon: 1, Lat: 1}, time.Second)
	vp.JumpTo(domain.Coordinates{Lon: 2, Lat: 2})

	v := vp.View()
	assert.Equal(t, domain.Coordinates{Lon: 2, Lat: 2}, v.Center)
	assert.Equal(t, time.Duration(0), v.Easing)
	assert.Equal(t, 1, v.Updates)
}
