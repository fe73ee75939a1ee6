package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"ride-sim-service/internal/adapters/cache"
	"ride-sim-service/internal/adapters/directions"
	"ride-sim-service/internal/adapters/events"
	"ride-sim-service/internal/api"
	"ride-sim-service/internal/camera"
	"ride-sim-service/internal/clock"
	"ride-sim-service/internal/config"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/location"
	"ride-sim-service/internal/overlay"
	"ride-sim-service/internal/platform/db"
	"ride-sim-service/internal/platform/logger"
	"ride-sim-service/internal/ports"
	"ride-sim-service/internal/services"
	"ride-sim-service/internal/trip"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// defaultCenter is where the map starts before the rider picks a location (Bengaluru).
var defaultCenter = domain.Coordinates{Lon: 77.5946, Lat: 12.9716}

const defaultZoom = 15

// geoProvider is the union of what the geocoding backends implement.
type geoProvider interface {
	ports.Geocoder
	ports.DirectionsProvider
}

// main is the application composition root.
// It wires concrete adapters (Mapbox/ORS, SQL and Redis caches, Kafka) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, "ride-sim")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newGeoProvider(cfg, log)
	if err != nil {
		return err
	}

	routeCache, closeDB, err := newRouteCache(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	var dirs ports.DirectionsProvider = provider
	if routeCache != nil {
		dirs = directions.NewCachedDirections(provider, routeCache, log)
	}

	var suggestions ports.SuggestionCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Suggestions still work uncached; the adapter logs each failed lookup.
			log.Warn("redis unreachable", zap.Error(err))
		}
		suggestions = cache.NewRedisSuggestionCache(rdb, cfg.SuggestionTTL, log)
	}

	var listeners []trip.Listener
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer pub.Close()
		go pub.Run(ctx)
		listeners = append(listeners, pub)
		log.Info("publishing trip events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	loop := clock.NewLoop(256)
	go loop.Run(ctx)

	store := location.NewStore()
	session := services.NewSession(services.SessionDeps{
		Scheduler:  loop,
		Executor:   loop,
		Directions: dirs,
		Locations:  store,
		Viewport:   camera.NewRecordingViewport(defaultCenter, defaultZoom),
		Listeners:  listeners,
		Timings: trip.Timings{
			SearchDelay:         cfg.SearchDelay,
			FoundDelay:          cfg.FoundDelay,
			DriverToPickup:      cfg.DriverToPickupDuration,
			PickupToDestination: cfg.PickupToDestinationDuration,
			FetchTimeout:        cfg.FetchTimeout,
		},
		Tick:    cfg.TickInterval,
		Overlay: overlay.DefaultConfig(),
		Logger:  log,
	})

	router := api.NewRouter(api.Deps{
		Places:         services.NewPlaceService(provider, suggestions, log),
		Locations:      store,
		Session:        session,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("provider", cfg.GeoProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newGeoProvider(cfg *config.Config, log *zap.Logger) (geoProvider, error) {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	switch cfg.GeoProvider {
	case "ors":
		return directions.NewORSClient(cfg.ORSAPIKey, cfg.GeoCountry, log, directions.WithORSHTTPClient(hc))
	default:
		return directions.NewMapboxClient(cfg.MapboxToken, cfg.GeoCountry, log, directions.WithMapboxHTTPClient(hc))
	}
}

// newRouteCache opens the persistent route cache selected by CACHE_DRIVER. A nil
// cache means routes are always fetched.
func newRouteCache(cfg *config.Config, log *zap.Logger) (ports.RouteCache, func(), error) {
	noop := func() {}

	var (
		conn *sql.DB
		err  error
	)
	switch cfg.CacheDriver {
	case "none":
		return nil, noop, nil
	case "postgres":
		conn, err = db.Open(cfg.DatabaseURL)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create db dir: %w", err)
		}
		conn, err = db.OpenSqlite(cfg.DBPath)
	}
	if err != nil {
		return nil, noop, err
	}
	closeDB := func() { _ = conn.Close() }

	if err := cache.InitSchema(conn); err != nil {
		closeDB()
		return nil, noop, err
	}

	log.Info("route cache ready", zap.String("driver", cfg.CacheDriver))
	if cfg.CacheDriver == "postgres" {
		return cache.NewSQLRouteCache(conn, log), closeDB, nil
	}
	return cache.NewSqliteRouteCache(conn, log), closeDB, nil
}
