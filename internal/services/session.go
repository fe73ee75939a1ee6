package services

import (
	"context"
	"errors"
	"fmt"
	"ride-sim-service/internal/animation"
	"ride-sim-service/internal/camera"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/location"
	"ride-sim-service/internal/overlay"
	"ride-sim-service/internal/ports"
	"ride-sim-service/internal/routes"
	"ride-sim-service/internal/trip"
	"time"

	"go.uber.org/zap"
)

var ErrNoTrip = errors.New("no active trip")

type SessionDeps struct {
	Scheduler  clock.Scheduler
	Executor   clock.Executor
	Directions ports.DirectionsProvider
	Locations  *location.Store
	Viewport   *camera.RecordingViewport
	// Listeners are attached to every trip in addition to the camera follower.
	Listeners []trip.Listener
	Timings   trip.Timings
	Tick      time.Duration
	Overlay   overlay.Config
	Logger    *zap.Logger
}

// Session owns the single active trip and request overlay. Every method hops onto
// the scheduler through the executor, so callers may be HTTP goroutines.
type Session struct {
	deps     SessionDeps
	animator *animation.Animator
	follower *camera.Follower
	logger   *zap.Logger

	current *trip.Trip
	overlay *overlay.Timer
}

func NewSession(deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	animator := animation.NewAnimator(deps.Scheduler, deps.Tick)

	return &Session{
		deps:     deps,
		animator: animator,
		follower: camera.NewFollower(deps.Viewport, animator.Interval()),
		logger:   logger,
		overlay:  overlay.New(deps.Scheduler, deps.Overlay, logger.Named("overlay")),
	}
}

// StartTrip snapshots pickup and destination, replaces any trip in flight and starts
// a new one. Locations are consumed: the rider sets them again for the next trip.
func (s *Session) StartTrip(ctx context.Context, ride domain.RideSelection) (trip.Snapshot, error) {
	tc, err := s.deps.Locations.TripContext(ride)
	if err != nil {
		return trip.Snapshot{}, fmt.Errorf("start trip: %w", err)
	}

	var (
		snap     trip.Snapshot
		startErr error
	)
	err = s.deps.Executor.Call(ctx, func() {
		if s.current != nil {
			s.current.Cancel()
		}

		listeners := append([]trip.Listener{s.follower}, s.deps.Listeners...)
		t, err := trip.New(tc, trip.Deps{
			Scheduler: s.deps.Scheduler,
			Routes:    routes.NewRepository(s.deps.Directions, s.logger),
			Animator:  s.animator,
			Logger:    s.logger.Named("trip"),
			Listeners: listeners,
		}, s.deps.Timings)
		if err != nil {
			startErr = err
			return
		}

		s.deps.Viewport.JumpTo(tc.Pickup.Coordinates)
		if err := t.Start(); err != nil {
			startErr = err
			return
		}
		s.current = t
		s.deps.Locations.Reset()
		snap = t.Snapshot()
	})
	if err != nil {
		return trip.Snapshot{}, fmt.Errorf("start trip: %w", err)
	}
	if startErr != nil {
		return trip.Snapshot{}, fmt.Errorf("start trip: %w", startErr)
	}

	return snap, nil
}

// CurrentTrip returns a snapshot of the active (or last) trip.
func (s *Session) CurrentTrip(ctx context.Context) (trip.Snapshot, error) {
	var (
		snap  trip.Snapshot
		found bool
	)
	err := s.deps.Executor.Call(ctx, func() {
		if s.current != nil {
			snap = s.current.Snapshot()
			found = true
		}
	})
	if err != nil {
		return trip.Snapshot{}, fmt.Errorf("current trip: %w", err)
	}
	if !found {
		return trip.Snapshot{}, ErrNoTrip
	}
	return snap, nil
}

// CancelTrip cancels and forgets the current trip.
func (s *Session) CancelTrip(ctx context.Context) error {
	var found bool
	err := s.deps.Executor.Call(ctx, func() {
		if s.current != nil {
			s.current.Cancel()
			s.current = nil
			found = true
		}
	})
	if err != nil {
		return fmt.Errorf("cancel trip: %w", err)
	}
	if !found {
		return ErrNoTrip
	}
	return nil
}

func (s *Session) Camera() camera.View {
	return s.deps.Viewport.View()
}

// StartOverlay restarts the request overlay for ride.
func (s *Session) StartOverlay(ctx context.Context, ride domain.RideSelection) (overlay.State, error) {
	var state overlay.State
	err := s.deps.Executor.Call(ctx, func() {
		s.overlay.Cancel()
		_ = s.overlay.Start(ride)
		state = s.overlay.State()
	})
	if err != nil {
		return overlay.State{}, fmt.Errorf("start overlay: %w", err)
	}
	return state, nil
}

func (s *Session) OverlayState(ctx context.Context) (overlay.State, error) {
	var state overlay.State
	if err := s.deps.Executor.Call(ctx, func() { state = s.overlay.State() }); err != nil {
		return overlay.State{}, fmt.Errorf("overlay state: %w", err)
	}
	return state, nil
}

func (s *Session) CancelOverlay(ctx context.Context) (overlay.State, error) {
	var state overlay.State
	err := s.deps.Executor.Call(ctx, func() {
		s.overlay.Cancel()
		state = s.overlay.State()
	})
	if err != nil {
		return overlay.State{}, fmt.Errorf("cancel overlay: %w", err)
	}
	return state, nil
}
