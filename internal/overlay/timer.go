// Package overlay runs the ride-request overlay shown before a ride is confirmed.
// It is independent of the trip and only shares the selected ride.
package overlay

import (
	"errors"
	"math"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"time"

	"go.uber.org/zap"
)

type Phase int

const (
	PhaseIdle Phase = iota - 1
	PhaseSearching
	PhaseFound
	PhaseArriving
	PhaseArrived
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhaseSearching: "searching",
	PhaseFound:     "found",
	PhaseArriving:  "arriving",
	PhaseArrived:   "arrived",
}

var phaseTexts = map[Phase]string{
	PhaseSearching: "Finding a nearby driver",
	PhaseFound:     "Driver found! Getting ready",
	PhaseArriving:  "Your ride is on the way",
	PhaseArrived:   "Your driver has arrived",
}

func (p Phase) String() string { return phaseNames[p] }

// Text is the headline shown for the phase.
func (p Phase) Text() string { return phaseTexts[p] }

// ProgressPercent is the width of the progress bar for the phase.
func (p Phase) ProgressPercent() float64 {
	if p == PhaseIdle {
		return 0
	}
	return math.Min(float64(p+1)*33.33, 100)
}

var ErrActive = errors.New("overlay already active")

type Config struct {
	FoundAt      time.Duration
	ArrivingAt   time.Duration
	ArrivedAt    time.Duration
	RampInterval time.Duration
	RampStep     float64
	RampCap      float64
}

func DefaultConfig() Config {
	return Config{
		FoundAt:      5 * time.Second,
		ArrivingAt:   5500 * time.Millisecond,
		ArrivedAt:    15 * time.Second,
		RampInterval: 100 * time.Millisecond,
		RampStep:     2,
		RampCap:      85,
	}
}

// State is a copy of the overlay as the UI renders it.
type State struct {
	Active           bool
	Phase            Phase
	Text             string
	ProgressPercent  float64
	VehiclePercent   float64
	ConfirmAvailable bool
	Ride             domain.RideSelection
	StartedAt        time.Time
}

// Timer is confined to its scheduler like the trip engine.
type Timer struct {
	sched  clock.Scheduler
	cfg    Config
	logger *zap.Logger

	active    bool
	phase     Phase
	vehicle   float64
	ride      domain.RideSelection
	startedAt time.Time

	timers []clock.Timer
	ramp   clock.Timer
}

func New(sched clock.Scheduler, cfg Config, logger *zap.Logger) *Timer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timer{sched: sched, cfg: cfg, logger: logger, phase: PhaseIdle}
}

// Start begins the searching phase and schedules every later phase.
func (t *Timer) Start(ride domain.RideSelection) error {
	if t.active {
		return ErrActive
	}

	t.active = true
	t.phase = PhaseSearching
	t.vehicle = 0
	t.ride = ride
	t.startedAt = t.sched.Now()

	t.timers = []clock.Timer{
		t.sched.AfterFunc(t.cfg.FoundAt, func() { t.setPhase(PhaseFound) }),
		t.sched.AfterFunc(t.cfg.ArrivingAt, func() {
			t.setPhase(PhaseArriving)
			t.ramp = t.sched.AfterFunc(t.cfg.RampInterval, t.rampTick)
		}),
		t.sched.AfterFunc(t.cfg.ArrivedAt, func() {
			t.stopRamp()
			t.setPhase(PhaseArrived)
		}),
	}

	t.logger.Debug("overlay started", zap.String("ride", ride.ID))
	return nil
}

func (t *Timer) setPhase(p Phase) {
	t.phase = p
	t.logger.Debug("overlay phase", zap.Stringer("phase", p))
}

func (t *Timer) rampTick() {
	t.vehicle = math.Min(t.vehicle+t.cfg.RampStep, t.cfg.RampCap)
	t.ramp = t.sched.AfterFunc(t.cfg.RampInterval, t.rampTick)
}

func (t *Timer) stopRamp() {
	if t.ramp != nil {
		t.ramp.Stop()
		t.ramp = nil
	}
}

// Cancel clears every scheduled callback together and resets the overlay. Idempotent.
func (t *Timer) Cancel() {
	for _, tm := range t.timers {
		tm.Stop()
	}
	t.timers = nil
	t.stopRamp()

	if t.active {
		t.logger.Debug("overlay cancelled", zap.Stringer("phase", t.phase))
	}
	t.active = false
	t.phase = PhaseIdle
	t.vehicle = 0
}

// ConfirmAvailable reports whether the rider may confirm the booking.
func (t *Timer) ConfirmAvailable() bool {
	return t.active && t.phase == PhaseArrived
}

func (t *Timer) State() State {
	return State{
		Active:           t.active,
		Phase:            t.phase,
		Text:             t.phase.Text(),
		ProgressPercent:  t.phase.ProgressPercent(),
		VehiclePercent:   t.vehicle,
		ConfirmAvailable: t.ConfirmAvailable(),
		Ride:             t.ride,
		StartedAt:        t.startedAt,
	}
}
