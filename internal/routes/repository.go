// Package routes keeps the routed polylines of the active trip, at most one per stage.
package routes

import (
	"context"
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/platform/obs"
	"ride-sim-service/internal/ports"
	"sync"

	"go.uber.org/zap"
)

// Repository is trip scoped. Fetching is split into Resolve (network, no state) and
// Install (state, no network) so callers can run the first off their event loop.
type Repository struct {
	provider ports.DirectionsProvider
	logger   *zap.Logger

	mu     sync.RWMutex
	active map[domain.TripStage]domain.Route
}

func NewRepository(provider ports.DirectionsProvider, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		provider: provider,
		logger:   logger,
		active:   make(map[domain.TripStage]domain.Route),
	}
}

// Lookup returns the active route for stage when it was fetched for the same endpoints.
func (r *Repository) Lookup(stage domain.TripStage, origin, destination domain.Coordinates) (domain.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.active[stage]
	if !ok || !route.Matches(stage, origin, destination) {
		return domain.Route{}, false
	}
	return route.Clone(), true
}

// Resolve asks the provider for a route and keeps the first candidate. Nothing is retried.
func (r *Repository) Resolve(
	ctx context.Context,
	stage domain.TripStage,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, r.logger, "routes.Resolve")(&err)

	candidates, err := r.provider.Directions(ctx, origin, destination)
	if err != nil {
		return domain.Route{}, fmt.Errorf("resolve route for %s: %w", stage, err)
	}
	if len(candidates) == 0 {
		return domain.Route{}, fmt.Errorf("resolve route for %s: %w: %w", stage, domain.ErrDirectionsFailed, domain.ErrNoRoute)
	}

	route := domain.Route{
		Stage:       stage,
		Origin:      origin,
		Destination: destination,
		Path:        append([]domain.Coordinates(nil), candidates[0]...),
	}
	if err := route.Validate(); err != nil {
		return domain.Route{}, fmt.Errorf("resolve route for %s: %w: %w", stage, domain.ErrDirectionsFailed, err)
	}

	return route, nil
}

// Install makes route the active one for its stage, dropping any earlier route first.
func (r *Repository) Install(route domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, route.Stage)
	r.active[route.Stage] = route.Clone()
}

// Fetch returns the cached route for the key or resolves and installs a new one.
func (r *Repository) Fetch(
	ctx context.Context,
	stage domain.TripStage,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (domain.Route, error) {
	if route, ok := r.Lookup(stage, origin, destination); ok {
		return route, nil
	}

	route, err := r.Resolve(ctx, stage, origin, destination)
	if err != nil {
		return domain.Route{}, err
	}
	r.Install(route)
	return route.Clone(), nil
}

// Active returns the route held for stage, if any.
func (r *Repository) Active(stage domain.TripStage) (domain.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.active[stage]
	if !ok {
		return domain.Route{}, false
	}
	return route.Clone(), true
}

// All returns every active route.
func (r *Repository) All() []domain.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Route, 0, len(r.active))
	for _, stage := range []domain.TripStage{domain.StageDriverToPickup, domain.StagePickupToDestination} {
		if route, ok := r.active[stage]; ok {
			out = append(out, route.Clone())
		}
	}
	return out
}

// Invalidate drops the route of a stage that was exited.
func (r *Repository) Invalidate(stage domain.TripStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, stage)
}

// Reset drops every route.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.active)
}
