package trip

import (
	"ride-sim-service/internal/adapters/directions"
	"ride-sim-service/internal/animation"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/routes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	testContext = Context{
		Pickup:      domain.Location{Coordinates: domain.Coordinates{Lon: 77.6101, Lat: 12.9751}, Address: "MG Road"},
		Destination: domain.Location{Coordinates: domain.Coordinates{Lon: 77.6408, Lat: 12.9719}, Address: "Indiranagar"},
		Ride:        domain.DefaultRide(),
	}
)

func driverRoute() directions.MockRoute {
	start := testContext.DriverStart()
	pickup := testContext.Pickup.Coordinates
	return directions.MockRoute{
		From: start,
		To:   pickup,
		Path: []domain.Coordinates{start, {Lon: 77.6160, Lat: 12.9800}, pickup},
	}
}

func rideRoute() directions.MockRoute {
	pickup := testContext.Pickup.Coordinates
	dest := testContext.Destination.Coordinates
	return directions.MockRoute{
		From: pickup,
		To:   dest,
		Path: []domain.Coordinates{pickup, {Lon: 77.6200, Lat: 12.9780}, {Lon: 77.6300, Lat: 12.9740}, dest},
	}
}

type eventLog struct {
	events []Event
}

func (l *eventLog) OnTripEvent(e Event) { l.events = append(l.events, e) }

func (l *eventLog) kinds(kind EventKind) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (l *eventLog) stages() []domain.TripStage {
	var out []domain.TripStage
	for _, e := range l.kinds(EventStageChanged) {
		out = append(out, e.Stage)
	}
	return out
}

type harness struct {
	trip  *Trip
	clock *clock.Manual
	mock  *directions.MockProvider
	log   *eventLog
}

func newHarness(t *testing.T, sched clock.Scheduler, m *clock.Manual, mockRoutes ...directions.MockRoute) *harness {
	t.Helper()
	mock := directions.NewMockProvider(mockRoutes)
	log := &eventLog{}

	tr, err := New(testContext, Deps{
		Scheduler: sched,
		Routes:    routes.NewRepository(mock, nil),
		Animator:  animation.NewAnimator(sched, 100*time.Millisecond),
		Listeners: []Listener{log},
	}, DefaultTimings())
	require.NoError(t, err)

	return &harness{trip: tr, clock: m, mock: mock, log: log}
}

func newManualHarness(t *testing.T, mockRoutes ...directions.MockRoute) *harness {
	m := clock.NewManual(t0)
	return newHarness(t, m, m, mockRoutes...)
}

func TestStageTimeline(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	assert.Equal(t, domain.StageSearchingDriver, h.trip.Stage())

	h.clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, domain.StageSearchingDriver, h.trip.Stage())
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, domain.StageDriverFound, h.trip.Stage())

	h.clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, domain.StageDriverFound, h.trip.Stage())
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, domain.StageDriverToPickup, h.trip.Stage())

	v, ok := h.trip.Vehicle()
	require.True(t, ok)
	assert.Equal(t, testContext.DriverStart(), v.Position)

	// driver reaches pickup 50s into DriverToPickup
	h.clock.Advance(50 * time.Second)
	assert.Equal(t, domain.StagePickupToDestination, h.trip.Stage())

	h.clock.Advance(50*time.Second - time.Millisecond)
	assert.Equal(t, domain.StagePickupToDestination, h.trip.Stage())
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, domain.StageArrived, h.trip.Stage())

	assert.Equal(t, []domain.TripStage{
		domain.StageSearchingDriver,
		domain.StageDriverFound,
		domain.StageDriverToPickup,
		domain.StagePickupToDestination,
		domain.StageArrived,
	}, h.log.stages())

	v, _ = h.trip.Vehicle()
	assert.Equal(t, testContext.Destination.Coordinates, v.Position)
	assert.Equal(t, 1.0, v.Progress)
	assert.NoError(t, h.trip.Err())
	assert.Len(t, h.log.kinds(EventArrived), 1)
}

func TestDriverToPickupMidpointAndArrival(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	h.clock.Advance(3 * time.Second)

	start := testContext.DriverStart()
	pickup := testContext.Pickup.Coordinates

	h.clock.Advance(25 * time.Second)
	v, _ := h.trip.Vehicle()
	assert.Equal(t, domain.StageDriverToPickup, v.Stage)
	assert.InDelta(t, 0.5, v.Progress, 1e-12)
	assert.InDelta(t, (start.Lon+pickup.Lon)/2, v.Position.Lon, 1e-9)
	assert.InDelta(t, (start.Lat+pickup.Lat)/2, v.Position.Lat, 1e-9)
	assert.False(t, h.trip.Snapshot().StartRide)

	h.clock.Advance(25 * time.Second)
	v, _ = h.trip.Vehicle()
	assert.Equal(t, pickup, v.Position)

	arrived := h.log.kinds(EventDriverArrived)
	require.Len(t, arrived, 1)
	assert.Equal(t, t0.Add(53*time.Second), arrived[0].At)
	assert.Equal(t, pickup, arrived[0].Vehicle.Position)

	snap := h.trip.Snapshot()
	assert.True(t, snap.StartRide)
	assert.Equal(t, "Driver has arrived", snap.StatusText)

	// the driver leg is dropped once the stage is left
	_, ok := h.trip.routes.Active(domain.StageDriverToPickup)
	assert.False(t, ok)
	_, ok = h.trip.routes.Active(domain.StagePickupToDestination)
	assert.True(t, ok)
}

func TestDirectionsFailureLeavesVehicleAtPickup(t *testing.T) {
	h := newManualHarness(t, driverRoute())
	require.NoError(t, h.trip.Start())

	h.clock.Advance(60 * time.Second)
	assert.Equal(t, domain.StagePickupToDestination, h.trip.Stage())
	require.ErrorIs(t, h.trip.Err(), domain.ErrDirectionsFailed)

	h.clock.Advance(5 * time.Minute)
	assert.Equal(t, domain.StagePickupToDestination, h.trip.Stage())
	assert.Empty(t, h.log.kinds(EventArrived))

	v, _ := h.trip.Vehicle()
	assert.Equal(t, testContext.Pickup.Coordinates, v.Position)

	degraded := h.log.kinds(EventDegraded)
	require.Len(t, degraded, 1)
	assert.ErrorIs(t, degraded[0].Err, domain.ErrDirectionsFailed)

	snap := h.trip.Snapshot()
	assert.True(t, snap.Degraded)
	assert.NotEmpty(t, snap.Error)
	assert.Equal(t, 0, h.clock.Pending())
}

func TestDriverRouteFailureOnlyDegrades(t *testing.T) {
	h := newManualHarness(t, rideRoute())
	require.NoError(t, h.trip.Start())

	h.clock.Advance(103 * time.Second)
	assert.Equal(t, domain.StageArrived, h.trip.Stage())
	assert.NoError(t, h.trip.Err())
	assert.True(t, h.trip.Snapshot().Degraded)
	assert.Len(t, h.log.kinds(EventDegraded), 1)
}

func TestRouteEventPrecedesRideAnimation(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	h.clock.Advance(54 * time.Second)

	routeIdx, firstMove := -1, -1
	for i, e := range h.log.events {
		if e.Kind == EventRouteChanged && e.Stage == domain.StagePickupToDestination && routeIdx < 0 {
			routeIdx = i
			assert.Equal(t, rideRoute().Path, e.Route.Path)
		}
		if e.Kind == EventVehicleMoved && e.Stage == domain.StagePickupToDestination && firstMove < 0 {
			firstMove = i
		}
	}
	require.GreaterOrEqual(t, routeIdx, 0)
	require.GreaterOrEqual(t, firstMove, 0)
	assert.Less(t, routeIdx, firstMove)

	markers := h.log.kinds(EventMarkerPlaced)
	require.Len(t, markers, 2)
	assert.Equal(t, MarkerPickup, markers[0].Marker.Kind)
	assert.Equal(t, MarkerDestination, markers[1].Marker.Kind)
	assert.Equal(t, domain.StagePickupToDestination, markers[1].Stage)
}

func TestDuplicateAnimationRequestIgnored(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	h.clock.Advance(3 * time.Second)

	run := h.trip.run
	require.NotNil(t, run)

	h.trip.spawnAnimation(
		domain.StageDriverToPickup,
		[]domain.Coordinates{testContext.DriverStart(), testContext.Pickup.Coordinates},
		time.Second,
		animation.ModeLinear,
		func() { t.Fatal("duplicate animation completed") },
	)
	assert.Same(t, run, h.trip.run)

	before := len(h.log.kinds(EventVehicleMoved))
	h.clock.Advance(100 * time.Millisecond)
	assert.Equal(t, before+1, len(h.log.kinds(EventVehicleMoved)))

	h.clock.Advance(2 * time.Minute)
	assert.Len(t, h.log.kinds(EventDriverArrived), 1)
}

func TestCancelStopsEverything(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	h.clock.Advance(10 * time.Second)

	h.trip.Cancel()
	h.trip.Cancel()
	n := len(h.log.events)

	h.clock.Advance(5 * time.Minute)
	assert.Len(t, h.log.events, n)
	assert.Len(t, h.log.kinds(EventCancelled), 1)
	assert.Equal(t, domain.StageDriverToPickup, h.trip.Stage())
	assert.Equal(t, 0, h.clock.Pending())
	assert.True(t, h.trip.Snapshot().Cancelled)
	assert.ErrorIs(t, h.trip.Start(), ErrCancelled)
}

func TestCancelDuringSearchStopsTimer(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())
	h.clock.Advance(time.Second)

	h.trip.Cancel()
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, domain.StageSearchingDriver, h.trip.Stage())
	assert.Equal(t, 0, h.mock.Calls())
}

// heldGo defers the completion of off-loop work until release is called.
type heldGo struct {
	*clock.Manual
	held []func()
}

func (h *heldGo) Go(work func(), done func()) {
	work()
	h.held = append(h.held, done)
}

func (h *heldGo) release() {
	for _, done := range h.held {
		h.AfterFunc(0, done)
	}
	h.held = nil
}

func TestLateRouteResultIsDropped(t *testing.T) {
	m := clock.NewManual(t0)
	sched := &heldGo{Manual: m}
	h := newHarness(t, sched, m, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())

	h.clock.Advance(53 * time.Second)
	require.Equal(t, domain.StagePickupToDestination, h.trip.Stage())

	h.trip.Cancel()
	sched.release()
	h.clock.Advance(time.Minute)

	assert.Empty(t, h.log.kinds(EventRouteChanged))
	_, ok := h.trip.routes.Active(domain.StagePickupToDestination)
	assert.False(t, ok)
	v, _ := h.trip.Vehicle()
	assert.Equal(t, testContext.Pickup.Coordinates, v.Position)
}

func TestStaleDisplayRouteIsDropped(t *testing.T) {
	m := clock.NewManual(t0)
	sched := &heldGo{Manual: m}
	h := newHarness(t, sched, m, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())

	// hold the driver leg until the stage has changed
	h.clock.Advance(53 * time.Second)
	require.Len(t, sched.held, 2)
	sched.release()
	h.clock.Advance(0)

	_, ok := h.trip.routes.Active(domain.StageDriverToPickup)
	assert.False(t, ok)
	_, ok = h.trip.routes.Active(domain.StagePickupToDestination)
	assert.True(t, ok)

	h.clock.Advance(50 * time.Second)
	assert.Equal(t, domain.StageArrived, h.trip.Stage())
}

func TestStartTwice(t *testing.T) {
	h := newManualHarness(t)
	require.NoError(t, h.trip.Start())
	assert.ErrorIs(t, h.trip.Start(), ErrAlreadyStarted)
}

func TestNewRejectsInvalidContext(t *testing.T) {
	m := clock.NewManual(t0)
	bad := testContext
	bad.Destination.Coordinates.Lat = 91

	_, err := New(bad, Deps{
		Scheduler: m,
		Routes:    routes.NewRepository(directions.NewMockProvider(nil), nil),
		Animator:  animation.NewAnimator(m, 0),
	}, Timings{})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}

func TestSnapshotStatusTexts(t *testing.T) {
	h := newManualHarness(t, driverRoute(), rideRoute())
	require.NoError(t, h.trip.Start())

	steps := []struct {
		advance time.Duration
		status  string
	}{
		{0, "Finding a nearby driver"},
		{1500 * time.Millisecond, "Driver found! Getting ready"},
		{1500 * time.Millisecond, "Driver on the way"},
		{50 * time.Second, "Driver has arrived"},
		{50 * time.Second, "Arrived at destination"},
	}
	for _, s := range steps {
		h.clock.Advance(s.advance)
		assert.Equal(t, s.status, h.trip.Snapshot().StatusText)
	}

	snap := h.trip.Snapshot()
	assert.Equal(t, "🛺", snap.Icon)
	require.NotNil(t, snap.Vehicle)
	assert.Len(t, snap.Markers, 3)
	assert.Len(t, snap.Routes, 1)
}

func TestTimingsWithDefaults(t *testing.T) {
	got := Timings{DriverToPickup: 5 * time.Second}.WithDefaults()
	assert.Equal(t, 5*time.Second, got.DriverToPickup)
	assert.Equal(t, 1500*time.Millisecond, got.SearchDelay)
	assert.Equal(t, 50*time.Second, got.PickupToDestination)
	assert.Equal(t, 10*time.Second, got.FetchTimeout)
}
