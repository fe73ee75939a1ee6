// Package camera keeps the map viewport centred on the moving vehicle.
package camera

import (
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/trip"
	"sync"
	"time"
)

// Viewport is the map camera. EaseTo pans to center over the given duration.
type Viewport interface {
	EaseTo(center domain.Coordinates, easing time.Duration)
}

// Follower re-centres the viewport on every vehicle frame. It only reads trip
// events and never writes vehicle state.
type Follower struct {
	viewport Viewport
	easing   time.Duration
}

// NewFollower eases over one tick so the camera keeps pace with the marker.
func NewFollower(viewport Viewport, tick time.Duration) *Follower {
	return &Follower{viewport: viewport, easing: tick}
}

func (f *Follower) OnTripEvent(e trip.Event) {
	if e.Kind != trip.EventVehicleMoved {
		return
	}
	f.viewport.EaseTo(e.Vehicle.Position, f.easing)
}

// View is the recorded camera state.
type View struct {
	Center  domain.Coordinates
	Zoom    float64
	Easing  time.Duration
	Updates int
}

// RecordingViewport is an in-memory Viewport. Safe for concurrent use.
type RecordingViewport struct {
	mu   sync.Mutex
	view View
}

func NewRecordingViewport(center domain.Coordinates, zoom float64) *RecordingViewport {
	return &RecordingViewport{view: View{Center: center, Zoom: zoom}}
}

func (r *RecordingViewport) EaseTo(center domain.Coordinates, easing time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Center = center
	r.view.Easing = easing
	r.view.Updates++
}

// JumpTo re-centres without animation, as when a new trip starts.
func (r *RecordingViewport) JumpTo(center domain.Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Center = center
	r.view.Easing = 0
}

func (r *RecordingViewport) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}
