// Package animation moves a vehicle marker along a path in fixed ticks.
//
// Progress is derived from the tick count rather than wall time, so a run is
// reproducible under a virtual clock: tick k of a run with interval i and
// duration D is at t = min(k*i/D, 1).
package animation

import (
	"errors"
	"fmt"
	"math"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/geo"
	"time"
)

// DefaultInterval is the tick period (~10 fps).
const DefaultInterval = 100 * time.Millisecond

var ErrInvalidPath = errors.New("invalid path")

// Mode selects how positions are interpolated.
type Mode int

const (
	// ModeLinear moves in a straight line from the first to the last point.
	ModeLinear Mode = iota
	// ModePolyline walks every segment of the path.
	ModePolyline
)

func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModePolyline:
		return "polyline"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Frame is one emitted vehicle position.
type Frame struct {
	Position       domain.Coordinates
	BearingDegrees float64
	Progress       float64
	Step           int
}

type Animator struct {
	sched    clock.Scheduler
	interval time.Duration
}

func NewAnimator(sched clock.Scheduler, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Animator{sched: sched, interval: interval}
}

func (a *Animator) Interval() time.Duration { return a.interval }

// Run is one animation in flight. It is confined to the scheduler thread.
type Run struct {
	sched    clock.Scheduler
	interval time.Duration
	duration time.Duration
	mode     Mode
	path     []domain.Coordinates

	onFrame func(Frame)
	onDone  func()

	step      int
	segment   int
	bearing   float64
	timer     clock.Timer
	cancelled bool
	done      bool
}

// Start validates the path and emits the first frame (progress 0) before returning.
// onFrame then runs once per tick; onDone runs once after the frame with progress 1.
// Nothing is scheduled when validation fails.
func (a *Animator) Start(
	path []domain.Coordinates,
	duration time.Duration,
	mode Mode,
	onFrame func(Frame),
	onDone func(),
) (*Run, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("start animation: duration %s: %w", duration, ErrInvalidPath)
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("start animation: %d points: %w", len(path), ErrInvalidPath)
	}
	for i, c := range path {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("start animation: point %d: %w", i, err)
		}
	}

	if mode == ModeLinear {
		path = []domain.Coordinates{path[0], path[len(path)-1]}
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}
	if onDone == nil {
		onDone = func() {}
	}

	r := &Run{
		sched:    a.sched,
		interval: a.interval,
		duration: duration,
		mode:     mode,
		path:     append([]domain.Coordinates(nil), path...),
		onFrame:  onFrame,
		onDone:   onDone,
		segment:  -1,
	}

	r.onFrame(r.frameAt(0))
	r.timer = r.sched.AfterFunc(r.interval, r.tick)
	return r, nil
}

func (r *Run) tick() {
	if r.cancelled || r.done {
		return
	}

	r.step++
	t := math.Min(float64(r.step)*float64(r.interval)/float64(r.duration), 1)

	r.onFrame(r.frameAt(t))
	if r.cancelled {
		return
	}

	if t >= 1 {
		r.done = true
		r.timer = nil
		r.onDone()
		return
	}
	r.timer = r.sched.AfterFunc(r.interval, r.tick)
}

func (r *Run) frameAt(t float64) Frame {
	last := len(r.path) - 1
	segments := float64(last)

	idx := int(math.Floor(t * segments))
	if idx > last-1 {
		idx = last - 1
	}
	fraction := t*segments - float64(idx)

	if idx != r.segment {
		r.segment = idx
		from, to := r.path[idx], r.path[idx+1]
		// zero-length segments keep the previous heading
		if !from.Equal(to) {
			r.bearing = geo.Bearing(from, to)
		}
	}

	pos := geo.Lerp(r.path[idx], r.path[idx+1], fraction)
	if t >= 1 {
		pos = r.path[last]
	}

	return Frame{
		Position:       pos,
		BearingDegrees: r.bearing,
		Progress:       t,
		Step:           r.step,
	}
}

// Cancel stops the run. No frame and no completion callback follow. Idempotent,
// and a no-op on a finished run.
func (r *Run) Cancel() {
	if r == nil || r.cancelled || r.done {
		return
	}
	r.cancelled = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Done reports whether the run reached progress 1.
func (r *Run) Done() bool {
	return r != nil && r.done
}

func (r *Run) Cancelled() bool {
	return r != nil && r.cancelled
}

func (r *Run) Mode() Mode { return r.mode }

// Steps is the number of ticks the run takes to reach progress 1.
func (r *Run) Steps() int {
	return int(math.Ceil(float64(r.duration) / float64(r.interval)))
}
