// Package trip drives one simulated ride through its stages.
//
// A Trip is confined to its scheduler: every method must be called from a
// scheduler callback (or through clock.Executor.Call), and every listener runs
// there too. Network work is handed to Scheduler.Go and its result is applied
// only if the trip is still in the stage that asked for it.
package trip

import (
	"context"
	"errors"
	"fmt"
	"ride-sim-service/internal/animation"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/routes"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadyStarted = errors.New("trip already started")
	ErrCancelled      = errors.New("trip cancelled")
)

type Deps struct {
	Scheduler clock.Scheduler
	Routes    *routes.Repository
	Animator  *animation.Animator
	Logger    *zap.Logger
	Listeners []Listener
}

type Trip struct {
	id      string
	tc      Context
	timings Timings

	sched    clock.Scheduler
	routes   *routes.Repository
	animator *animation.Animator
	logger   *zap.Logger

	listeners []Listener

	ctx    context.Context
	cancel context.CancelFunc

	stage          domain.TripStage
	epoch          uint64
	started        bool
	cancelled      bool
	startedAt      time.Time
	stageEnteredAt time.Time

	timer       clock.Timer
	run         *animation.Run
	animStarted map[domain.TripStage]bool

	vehicle       domain.VehicleState
	hasVehicle    bool
	markers       map[MarkerKind]Marker
	driverArrived bool
	degraded      bool
	err           error
}

func New(tc Context, deps Deps, timings Timings) (*Trip, error) {
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("new trip: %w", err)
	}
	if deps.Scheduler == nil || deps.Routes == nil || deps.Animator == nil {
		return nil, errors.New("new trip: scheduler, routes and animator are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	return &Trip{
		id:          id,
		tc:          tc,
		timings:     timings.WithDefaults(),
		sched:       deps.Scheduler,
		routes:      deps.Routes,
		animator:    deps.Animator,
		logger:      logger.With(zap.String("trip_id", id)),
		listeners:   append([]Listener(nil), deps.Listeners...),
		ctx:         ctx,
		cancel:      cancel,
		animStarted: make(map[domain.TripStage]bool),
		markers:     make(map[MarkerKind]Marker),
	}, nil
}

func (t *Trip) ID() string              { return t.id }
func (t *Trip) Context() Context        { return t.tc }
func (t *Trip) Stage() domain.TripStage { return t.stage }

// Err is the error that halted the trip, if any.
func (t *Trip) Err() error { return t.err }

func (t *Trip) Vehicle() (domain.VehicleState, bool) { return t.vehicle, t.hasVehicle }

// Subscribe adds a listener for subsequent events.
func (t *Trip) Subscribe(l Listener) {
	t.listeners = append(t.listeners, l)
}

// Start enters SearchingDriver and schedules the rest of the trip.
func (t *Trip) Start() error {
	if t.cancelled {
		return ErrCancelled
	}
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true
	t.startedAt = t.sched.Now()

	t.logger.Info("trip started",
		zap.String("ride", t.tc.Ride.ID),
		zap.Stringer("pickup", t.tc.Pickup.Coordinates),
		zap.Stringer("destination", t.tc.Destination.Coordinates),
	)

	t.placeMarker(Marker{Kind: MarkerPickup, Position: t.tc.Pickup.Coordinates, Label: t.tc.Pickup.Address})
	t.enter(domain.StageSearchingDriver)
	return nil
}

// Cancel stops stage timers and the running animation and drops any route
// result still in flight. Idempotent.
func (t *Trip) Cancel() {
	if t.cancelled {
		return
	}
	t.cancelled = true
	t.epoch++
	t.cancel()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.run.Cancel()
	t.run = nil

	t.logger.Info("trip cancelled", zap.String("stage", t.stage.String()))
	t.emit(Event{Kind: EventCancelled, Stage: t.stage})
}

func (t *Trip) Cancelled() bool { return t.cancelled }

func (t *Trip) transition(next domain.TripStage) {
	if t.cancelled {
		return
	}
	if !t.stage.CanTransitionTo(next) {
		t.logger.Warn("ignoring invalid stage transition",
			zap.String("from", t.stage.String()),
			zap.String("to", next.String()),
		)
		return
	}
	t.enter(next)
}

func (t *Trip) enter(stage domain.TripStage) {
	prev := t.stage
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.run.Cancel()
	t.run = nil

	t.stage = stage
	t.epoch++
	t.stageEnteredAt = t.sched.Now()

	t.logger.Debug("stage entered", zap.String("from", prev.String()), zap.String("to", stage.String()))
	t.emit(Event{Kind: EventStageChanged, Stage: stage})

	switch stage {
	case domain.StageSearchingDriver:
		t.after(t.timings.SearchDelay, domain.StageDriverFound)
	case domain.StageDriverFound:
		t.after(t.timings.FoundDelay, domain.StageDriverToPickup)
	case domain.StageDriverToPickup:
		t.enterDriverToPickup()
	case domain.StagePickupToDestination:
		t.enterPickupToDestination()
	case domain.StageArrived:
		t.enterArrived()
	}
}

func (t *Trip) after(d time.Duration, next domain.TripStage) {
	t.timer = t.sched.AfterFunc(d, func() {
		t.timer = nil
		t.transition(next)
	})
}

func (t *Trip) enterDriverToPickup() {
	start := t.tc.DriverStart()
	pickup := t.tc.Pickup.Coordinates

	t.vehicle = domain.VehicleState{Position: start, Stage: domain.StageDriverToPickup}
	t.hasVehicle = true

	t.spawnAnimation(
		domain.StageDriverToPickup,
		[]domain.Coordinates{start, pickup},
		t.timings.DriverToPickup,
		animation.ModeLinear,
		t.onDriverArrived,
	)

	// The driver drives straight to pickup; the routed line is only drawn.
	t.fetchRoute(domain.StageDriverToPickup, start, pickup,
		func(domain.Route) {},
		func(err error) { t.degrade(err, false) },
	)
}

func (t *Trip) onDriverArrived() {
	t.driverArrived = true
	t.logger.Info("driver arrived at pickup")
	t.emit(Event{Kind: EventDriverArrived, Stage: t.stage, Vehicle: t.vehicle})

	t.routes.Invalidate(domain.StageDriverToPickup)
	t.transition(domain.StagePickupToDestination)
}

func (t *Trip) enterPickupToDestination() {
	pickup := t.tc.Pickup.Coordinates
	dest := t.tc.Destination.Coordinates

	t.vehicle.Position = pickup
	t.vehicle.Stage = domain.StagePickupToDestination
	t.vehicle.Progress = 0

	t.placeMarker(Marker{Kind: MarkerDestination, Position: dest, Label: t.tc.Destination.Address})

	t.fetchRoute(domain.StagePickupToDestination, pickup, dest,
		func(route domain.Route) {
			t.spawnAnimation(
				domain.StagePickupToDestination,
				route.Path,
				t.timings.PickupToDestination,
				animation.ModePolyline,
				func() { t.transition(domain.StageArrived) },
			)
		},
		// Without a route the vehicle stays at pickup and the trip never arrives.
		func(err error) { t.degrade(err, true) },
	)
}

func (t *Trip) enterArrived() {
	t.vehicle.Stage = domain.StageArrived
	t.logger.Info("trip arrived", zap.Duration("elapsed", t.sched.Now().Sub(t.startedAt)))
	t.emit(Event{Kind: EventArrived, Stage: domain.StageArrived, Vehicle: t.vehicle})
}

// spawnAnimation starts the single animation of a stage. Repeated requests for
// the same stage are ignored.
func (t *Trip) spawnAnimation(
	stage domain.TripStage,
	path []domain.Coordinates,
	duration time.Duration,
	mode animation.Mode,
	onDone func(),
) {
	if t.animStarted[stage] {
		t.logger.Debug("animation already started", zap.String("stage", stage.String()))
		return
	}
	t.animStarted[stage] = true

	t.run.Cancel()
	run, err := t.animator.Start(path, duration, mode, func(f animation.Frame) {
		t.vehicle = domain.VehicleState{
			Position:       f.Position,
			BearingDegrees: f.BearingDegrees,
			Stage:          stage,
			Progress:       f.Progress,
		}
		t.emit(Event{Kind: EventVehicleMoved, Stage: stage, Vehicle: t.vehicle})
	}, func() {
		t.run = nil
		onDone()
	})
	if err != nil {
		t.degrade(fmt.Errorf("animate %s: %w", stage, err), true)
		return
	}
	t.run = run
}

// fetchRoute resolves a route off the scheduler. The result is applied only if the
// trip is still in stage and has not been cancelled meanwhile.
func (t *Trip) fetchRoute(
	stage domain.TripStage,
	origin domain.Coordinates,
	destination domain.Coordinates,
	onRoute func(domain.Route),
	onErr func(error),
) {
	if route, ok := t.routes.Lookup(stage, origin, destination); ok {
		t.emit(Event{Kind: EventRouteChanged, Stage: stage, Route: &route})
		onRoute(route)
		return
	}

	epoch := t.epoch
	parent := t.ctx
	timeout := t.timings.FetchTimeout

	var (
		route domain.Route
		err   error
	)
	t.sched.Go(func() {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		route, err = t.routes.Resolve(ctx, stage, origin, destination)
	}, func() {
		if t.cancelled || t.epoch != epoch {
			t.logger.Debug("dropping stale route result", zap.String("stage", stage.String()))
			return
		}
		if err != nil {
			onErr(err)
			return
		}

		t.routes.Install(route)
		t.emit(Event{Kind: EventRouteChanged, Stage: stage, Route: &route})
		onRoute(route)
	})
}

// degrade records a recoverable failure. halt marks it as the error that stopped the trip.
func (t *Trip) degrade(err error, halt bool) {
	t.degraded = true
	if halt {
		t.err = err
		t.logger.Warn("trip halted", zap.String("stage", t.stage.String()), zap.Error(err))
	} else {
		t.logger.Info("trip degraded", zap.String("stage", t.stage.String()), zap.Error(err))
	}
	t.emit(Event{Kind: EventDegraded, Stage: t.stage, Vehicle: t.vehicle, Err: err})
}

func (t *Trip) placeMarker(m Marker) {
	t.markers[m.Kind] = m
	t.emit(Event{Kind: EventMarkerPlaced, Stage: t.stage, Marker: &m})
}

func (t *Trip) emit(e Event) {
	e.TripID = t.id
	e.At = t.sched.Now()
	for _, l := range t.listeners {
		l.OnTripEvent(e)
	}
}
