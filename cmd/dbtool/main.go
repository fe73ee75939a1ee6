package main

import (
	"fmt"
	"os"
	"ride-sim-service/internal/adapters/cache"
	"ride-sim-service/internal/config"
	"ride-sim-service/internal/platform/db"
	"ride-sim-service/internal/platform/logger"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the route cache schema in the Postgres database named by DATABASE_URL.
// The server does the same on startup; this exists for deploys that migrate ahead of time.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}

	log, err := logger.New(config.Get("APP_ENV", "production"), "dbtool")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	log.Info("initializing route cache schema")
	if err := cache.InitSchema(conn); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}
	log.Info("schema ready")
}
