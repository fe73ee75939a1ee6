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

// SQLRouteCache is a Postgres-backed cache for origin->destination route polylines.
type SQLRouteCache struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSQLRouteCache(db *sql.DB, logger *zap.Logger) *SQLRouteCache {
	return &SQLRouteCache{DB: db, Logger: logger}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ []domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, s.Logger, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT path
    FROM route_cache
    WHERE origin = $1
        AND destination = $2;
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

func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	path []domain.Coordinates,
) (err error) {
	defer obs.Time(ctx, s.Logger, "route.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	raw, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, path)
    VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET path = EXCLUDED.path;
	`, pointKey(origin), pointKey(destination), raw); err != nil {
		return fmt.Errorf("insert route cache origin=%q: %w", pointKey(origin), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}
