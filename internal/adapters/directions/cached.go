package directions

import (
	"context"
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/ports"

	"go.uber.org/zap"
)

// CachedDirections checks a persistent route cache before calling the wrapped provider.
// Cache failures are logged and never fail the lookup.
type CachedDirections struct {
	next   ports.DirectionsProvider
	cache  ports.RouteCache
	logger *zap.Logger
}

func NewCachedDirections(next ports.DirectionsProvider, cache ports.RouteCache, logger *zap.Logger) *CachedDirections {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDirections{next: next, cache: cache, logger: logger}
}

func (c *CachedDirections) Directions(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) ([][]domain.Coordinates, error) {
	if c.cache != nil {
		path, ok, err := c.cache.Get(ctx, origin, destination)
		switch {
		case err != nil:
			c.logger.Warn("route cache read failed", zap.Error(err))
		case ok:
			return [][]domain.Coordinates{path}, nil
		}
	}

	routes, err := c.next.Directions(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("cached directions: %w", err)
	}

	if c.cache != nil && len(routes) > 0 {
		if err := c.cache.Put(ctx, origin, destination, routes[0]); err != nil {
			c.logger.Warn("route cache write failed", zap.Error(err))
		}
	}

	return routes, nil
}
