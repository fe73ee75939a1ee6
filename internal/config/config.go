package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the trip simulation service.
type Config struct {
	Port           string
	AppEnv         string
	AllowedOrigins []string

	// Geocoding / directions
	GeoProvider string
	MapboxToken string
	ORSAPIKey   string
	GeoCountry  string
	HTTPTimeout time.Duration

	// Caches
	CacheDriver   string
	DBPath        string
	DatabaseURL   string
	RedisURL      string
	SuggestionTTL time.Duration

	// Trip events
	KafkaBrokers []string
	KafkaTopic   string

	// Simulation timings
	TickInterval                time.Duration
	SearchDelay                 time.Duration
	FoundDelay                  time.Duration
	DriverToPickupDuration      time.Duration
	PickupToDestinationDuration time.Duration
	FetchTimeout                time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:   Get("PORT", "8080"),
		AppEnv: Get("APP_ENV", "production"),

		AllowedOrigins: GetList("ALLOWED_ORIGINS"),

		GeoProvider: strings.ToLower(Get("GEO_PROVIDER", "mapbox")),
		MapboxToken: Get("MAPBOX_TOKEN", ""),
		ORSAPIKey:   Get("ORS_API_KEY", ""),
		GeoCountry:  Get("GEO_COUNTRY", "IN"),
		HTTPTimeout: GetDuration("HTTP_TIMEOUT", 10*time.Second),

		CacheDriver:   strings.ToLower(Get("CACHE_DRIVER", "sqlite")),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisURL:      Get("REDIS_URL", ""),
		SuggestionTTL: GetDuration("SUGGESTION_TTL", 10*time.Minute),

		KafkaBrokers: GetList("KAFKA_BROKERS"),
		KafkaTopic:   Get("KAFKA_TOPIC", "trip-events"),

		TickInterval:                GetDuration("TICK_INTERVAL", 100*time.Millisecond),
		SearchDelay:                 GetDuration("SEARCH_DELAY", 1500*time.Millisecond),
		FoundDelay:                  GetDuration("FOUND_DELAY", 1500*time.Millisecond),
		DriverToPickupDuration:      GetDuration("DRIVER_TO_PICKUP_DURATION", 50*time.Second),
		PickupToDestinationDuration: GetDuration("PICKUP_TO_DESTINATION_DURATION", 50*time.Second),
		FetchTimeout:                GetDuration("FETCH_TIMEOUT", 10*time.Second),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.GeoProvider {
	case "mapbox":
		if strings.TrimSpace(c.MapboxToken) == "" {
			return errors.New("MAPBOX_TOKEN is required when GEO_PROVIDER=mapbox")
		}
	case "ors":
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return errors.New("ORS_API_KEY is required when GEO_PROVIDER=ors")
		}
	default:
		return fmt.Errorf("unknown GEO_PROVIDER %q", c.GeoProvider)
	}

	switch c.CacheDriver {
	case "sqlite", "none":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when CACHE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	if c.TickInterval <= 0 {
		return errors.New("TICK_INTERVAL must be positive")
	}

	return nil
}

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// GetDuration accepts Go duration strings ("1.5s") or plain milliseconds ("1500").
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// GetList splits a comma separated value, dropping blanks.
func GetList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
