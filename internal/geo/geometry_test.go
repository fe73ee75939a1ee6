package geo

import (
	"math"
	"math/rand"
	"testing"

	"ride-sim-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBearingCardinalDirections(t *testing.T) {
	origin := domain.Coordinates{Lon: 0, Lat: 0}

	tests := []struct {
		name string
		to   domain.Coordinates
		want float64
	}{
		{"north", domain.Coordinates{Lon: 0, Lat: 1}, 0},
		{"east", domain.Coordinates{Lon: 1, Lat: 0}, 90},
		{"south", domain.Coordinates{Lon: 0, Lat: -1}, 180},
		{"west", domain.Coordinates{Lon: -1, Lat: 0}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Bearing(origin, tt.to), 1e-9)
		})
	}
}

func TestBearingRange(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := domain.Coordinates{Lon: r.Float64()*360 - 180, Lat: r.Float64()*180 - 90}
		b := domain.Coordinates{Lon: r.Float64()*360 - 180, Lat: r.Float64()*180 - 90}
		got := Bearing(a, b)
		if math.IsNaN(got) || got < 0 || got >= 360 {
			t.Fatalf("Bearing(%v, %v) = %v, want [0, 360)", a, b, got)
		}
	}
}

func TestBearingSamePoint(t *testing.T) {
	a := domain.Coordinates{Lon: 77.59, Lat: 12.97}
	got := Bearing(a, a)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, got)
}

func TestBearingUsesRadians(t *testing.T) {
	// Driver start is north-east of pickup, so heading to pickup points south-west.
	pickup := domain.Coordinates{Lon: 77.59, Lat: 12.97}
	driver := pickup.Offset(0.012, 0.009)

	got := Bearing(driver, pickup)
	assert.Greater(t, got, 180.0)
	assert.Less(t, got, 270.0)
}

func TestLerp(t *testing.T) {
	a := domain.Coordinates{Lon: 10, Lat: 20}
	b := domain.Coordinates{Lon: 20, Lat: 40}

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, b, Lerp(a, b, 1.5))
	assert.Equal(t, domain.Coordinates{Lon: 15, Lat: 30}, Lerp(a, b, 0.5))
}

func TestHaversineDriverOffset(t *testing.T) {
	pickup := domain.Coordinates{Lon: 77.59, Lat: 12.97}
	d := Haversine(pickup, pickup.Offset(0.012, 0.009))
	assert.InDelta(t, 1640, d, 50)
}
