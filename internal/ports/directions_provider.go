package ports

import (
	"context"
	"ride-sim-service/internal/domain"
)

// Contract for retrieving routed polylines between two coordinates.
type DirectionsProvider interface {
	// Return candidate routes, each an ordered polyline. The first candidate is preferred.
	Directions(ctx context.Context, origin, destination domain.Coordinates) ([][]domain.Coordinates, error)
}
