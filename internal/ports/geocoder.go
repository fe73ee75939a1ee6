package ports

import (
	"context"
	"ride-sim-service/internal/domain"
)

// Contract for resolving free text to places and coordinates to addresses.
type Geocoder interface {
	// Return up to limit suggestions for query, most relevant first.
	Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)
	// Return the best-match address for a coordinate.
	Reverse(ctx context.Context, c domain.Coordinates) (string, error)
}
