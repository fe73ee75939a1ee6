package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripStageOrder(t *testing.T) {
	want := []TripStage{
		StageSearchingDriver,
		StageDriverFound,
		StageDriverToPickup,
		StagePickupToDestination,
		StageArrived,
	}

	got := []TripStage{StageSearchingDriver}
	for s := StageSearchingDriver; ; {
		next, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, next)
		s = next
	}

	assert.Equal(t, want, got)
	assert.True(t, StageArrived.IsTerminal())
	assert.False(t, StageDriverToPickup.IsTerminal())
}

func TestTripStageCannotSkip(t *testing.T) {
	assert.True(t, StageDriverToPickup.CanTransitionTo(StagePickupToDestination))
	assert.False(t, StageSearchingDriver.CanTransitionTo(StageDriverToPickup))
	assert.False(t, StagePickupToDestination.CanTransitionTo(StageDriverToPickup))
	assert.False(t, StageArrived.CanTransitionTo(StageSearchingDriver))
}

func TestParseTripStage(t *testing.T) {
	s, err := ParseTripStage("driver_found")
	require.NoError(t, err)
	assert.Equal(t, StageDriverFound, s)

	_, err = ParseTripStage("teleporting")
	assert.Error(t, err)
}

func TestCoordinatesValidate(t *testing.T) {
	assert.NoError(t, Coordinates{Lon: 77.59, Lat: 12.97}.Validate())

	bad := []Coordinates{
		{Lon: math.NaN(), Lat: 12.97},
		{Lon: 77.59, Lat: math.Inf(1)},
		{Lon: 181, Lat: 0},
		{Lon: 0, Lat: -90.5},
	}
	for _, c := range bad {
		err := c.Validate()
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "coordinate %+v", c)
	}
}

func TestCoordinatesString(t *testing.T) {
	c := Coordinates{Lon: 77.59, Lat: 12.97}
	assert.Equal(t, "12.970000, 77.590000", c.String())
}

func TestGeolocationErrorIsLocationUnavailable(t *testing.T) {
	var err error = &GeolocationError{Reason: GeolocationTimeout}
	assert.True(t, errors.Is(err, ErrLocationUnavailable))

	r, err := ParseGeolocationReason("permission_denied")
	require.NoError(t, err)
	assert.Equal(t, GeolocationPermissionDenied, r)
}

func TestRideIcon(t *testing.T) {
	assert.Equal(t, "📦", RideSelection{ID: "courier"}.Icon())
	assert.Equal(t, "🚗", RideSelection{ID: "spaceship"}.Icon())
}
