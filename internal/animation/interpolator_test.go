package animation

import (
	"math"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/geo"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pickup = domain.Coordinates{Lon: 77.6101, Lat: 12.9751}
	driver = pickup.Offset(0.012, 0.009)
)

type recorder struct {
	frames []Frame
	done   int
}

func (r *recorder) frame(f Frame) { r.frames = append(r.frames, f) }
func (r *recorder) finish()       { r.done++ }

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

func TestLinearDriverToPickup(t *testing.T) {
	m := clock.NewManual(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	run, err := a.Start([]domain.Coordinates{driver, pickup}, 50*time.Second, ModeLinear, rec.frame, rec.finish)
	require.NoError(t, err)

	// first frame is synchronous
	require.Len(t, rec.frames, 1)
	assert.Equal(t, driver, rec.frames[0].Position)
	assert.Equal(t, 0.0, rec.frames[0].Progress)

	m.Advance(25 * time.Second)
	mid := rec.last()
	assert.InDelta(t, 0.5, mid.Progress, 1e-12)
	assert.InDelta(t, (driver.Lon+pickup.Lon)/2, mid.Position.Lon, 1e-9)
	assert.InDelta(t, (driver.Lat+pickup.Lat)/2, mid.Position.Lat, 1e-9)
	assert.Equal(t, 0, rec.done)

	m.Advance(25 * time.Second)
	end := rec.last()
	assert.Equal(t, 1.0, end.Progress)
	assert.Equal(t, pickup, end.Position)
	assert.Equal(t, 1, rec.done)
	assert.True(t, run.Done())
	assert.Len(t, rec.frames, 501)

	// bearing from the north-east offset back to pickup points south-west
	assert.Greater(t, end.BearingDegrees, 180.0)
	assert.Less(t, end.BearingDegrees, 270.0)
	assert.InDelta(t, geo.Bearing(driver, pickup), end.BearingDegrees, 1e-9)

	m.Advance(10 * time.Second)
	assert.Len(t, rec.frames, 501)
	assert.Equal(t, 1, rec.done)
	assert.Equal(t, 0, m.Pending())
}

func TestProgressStrictlyIncreases(t *testing.T) {
	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	_, err := a.Start([]domain.Coordinates{driver, pickup}, 1234*time.Millisecond, ModeLinear, rec.frame, rec.finish)
	require.NoError(t, err)
	m.Advance(5 * time.Second)

	for i := 1; i < len(rec.frames); i++ {
		assert.Greater(t, rec.frames[i].Progress, rec.frames[i-1].Progress, "frame %d", i)
	}
	assert.Equal(t, 1.0, rec.last().Progress)
	// 13 ticks reach t=1 when the duration is not a multiple of the interval
	assert.Len(t, rec.frames, 14)
	assert.Equal(t, 1, rec.done)
}

func TestPolylineWalksSegments(t *testing.T) {
	a0 := domain.Coordinates{Lon: 77.60, Lat: 12.97}
	a1 := domain.Coordinates{Lon: 77.61, Lat: 12.97} // east
	a2 := domain.Coordinates{Lon: 77.61, Lat: 12.98} // north
	path := []domain.Coordinates{a0, a1, a2}

	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	_, err := a.Start(path, 10*time.Second, ModePolyline, rec.frame, rec.finish)
	require.NoError(t, err)
	assert.InDelta(t, 90, rec.frames[0].BearingDegrees, 0.1)

	m.Advance(2500 * time.Millisecond)
	quarter := rec.last()
	assert.InDelta(t, 0.25, quarter.Progress, 1e-12)
	assert.InDelta(t, 77.605, quarter.Position.Lon, 1e-9)
	assert.InDelta(t, 12.97, quarter.Position.Lat, 1e-9)
	assert.InDelta(t, 90, quarter.BearingDegrees, 0.1)

	m.Advance(5 * time.Second)
	threeQuarters := rec.last()
	assert.InDelta(t, 77.61, threeQuarters.Position.Lon, 1e-9)
	assert.InDelta(t, 12.975, threeQuarters.Position.Lat, 1e-9)
	assert.InDelta(t, 0, threeQuarters.BearingDegrees, 0.1)

	m.Advance(5 * time.Second)
	assert.Equal(t, a2, rec.last().Position)
	assert.Equal(t, 1, rec.done)
}

func TestPolylineZeroLengthSegmentKeepsBearing(t *testing.T) {
	a0 := domain.Coordinates{Lon: 77.60, Lat: 12.97}
	a1 := domain.Coordinates{Lon: 77.61, Lat: 12.97}
	path := []domain.Coordinates{a0, a1, a1}

	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	_, err := a.Start(path, 2*time.Second, ModePolyline, rec.frame, rec.finish)
	require.NoError(t, err)
	m.Advance(2 * time.Second)

	for _, f := range rec.frames {
		assert.InDelta(t, 90, f.BearingDegrees, 0.1)
		assert.False(t, math.IsNaN(f.BearingDegrees))
	}
}

func TestLinearModeIgnoresInteriorPoints(t *testing.T) {
	detour := domain.Coordinates{Lon: 70, Lat: 10}
	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	_, err := a.Start([]domain.Coordinates{driver, detour, pickup}, time.Second, ModeLinear, rec.frame, rec.finish)
	require.NoError(t, err)
	m.Advance(500 * time.Millisecond)

	f := rec.last()
	assert.InDelta(t, (driver.Lon+pickup.Lon)/2, f.Position.Lon, 1e-9)
}

func TestCancelStopsFramesAndCompletion(t *testing.T) {
	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)
	rec := &recorder{}

	run, err := a.Start([]domain.Coordinates{driver, pickup}, 50*time.Second, ModeLinear, rec.frame, rec.finish)
	require.NoError(t, err)

	m.Advance(time.Second)
	emitted := len(rec.frames)
	run.Cancel()
	run.Cancel()

	m.Advance(60 * time.Second)
	assert.Len(t, rec.frames, emitted)
	assert.Equal(t, 0, rec.done)
	assert.False(t, run.Done())
	assert.True(t, run.Cancelled())
	assert.Equal(t, 0, m.Pending())
}

func TestCancelFromFrameCallback(t *testing.T) {
	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)

	var run *Run
	frames, done := 0, 0
	run, err := a.Start([]domain.Coordinates{driver, pickup}, time.Second, ModeLinear, func(f Frame) {
		frames++
		if f.Step == 3 {
			run.Cancel()
		}
	}, func() { done++ })
	require.NoError(t, err)

	m.Advance(5 * time.Second)
	assert.Equal(t, 4, frames)
	assert.Equal(t, 0, done)
}

func TestStartRejectsInvalidInput(t *testing.T) {
	m := clock.NewManual(time.Time{})
	a := NewAnimator(m, 100*time.Millisecond)

	tests := []struct {
		name     string
		path     []domain.Coordinates
		duration time.Duration
		want     error
	}{
		{"single point", []domain.Coordinates{pickup}, time.Second, ErrInvalidPath},
		{"zero duration", []domain.Coordinates{driver, pickup}, 0, ErrInvalidPath},
		{"nan", []domain.Coordinates{driver, {Lon: math.NaN(), Lat: 1}}, time.Second, domain.ErrInvalidCoordinate},
		{"out of range", []domain.Coordinates{{Lon: 181, Lat: 0}, pickup}, time.Second, domain.ErrInvalidCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := 0
			_, err := a.Start(tt.path, tt.duration, ModePolyline, func(Frame) { frames++ }, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, frames)
			assert.Equal(t, 0, m.Pending())
		})
	}
}
