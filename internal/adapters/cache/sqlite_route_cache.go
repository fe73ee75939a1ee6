package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/platform/obs"

	"go.uber.org/zap"
)

// SQLite backed cache for origin->destination route polylines.
type SqliteRouteCache struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSqliteRouteCache(db *sql.DB, logger *zap.Logger) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, Logger: logger}
}

// Fetch the cached path for one origin and destination.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, s.Logger, "route.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT path
    FROM route_cache
    WHERE origin = ?
        AND destination = ?;
	`

	var raw string
	err = s.DB.QueryRowContext(ctx, q, pointKey(origin), pointKey(destination)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	path, err := decodePath(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}
	return path, true, nil
}

// Store the path for one origin and destination, replacing any earlier entry.
func (s *SqliteRouteCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	path []domain.Coordinates,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	raw, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO route_cache (
        origin,
        destination,
        path
    )
    VALUES (?, ?, ?)
	`
	if _, err := s.DB.ExecContext(ctx, q, pointKey(origin), pointKey(destination), raw); err != nil {
		return fmt.Errorf("insert route cache origin=%q: %w", pointKey(origin), err)
	}

	return nil
}
