package ports

import (
	"context"
	"ride-sim-service/internal/domain"
)

// Port: persistent cache of origin->destination polylines.
// Get returns ok=false on a miss.
type RouteCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) ([]domain.Coordinates, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, path []domain.Coordinates) error
}

// Port: cache of geocoding suggestions keyed by normalized query.
type SuggestionCache interface {
	Get(ctx context.Context, query string) ([]domain.Suggestion, bool, error)
	Put(ctx context.Context, query string, suggestions []domain.Suggestion) error
}
