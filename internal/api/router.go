package api

import (
	"net/http"
	"ride-sim-service/internal/api/handlers"
	"ride-sim-service/internal/location"
	"ride-sim-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Deps struct {
	Places         *services.PlaceService
	Locations      *location.Store
	Session        *services.Session
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	placeHandler := &handlers.PlaceHandler{Places: deps.Places}
	locationHandler := &handlers.LocationHandler{Store: deps.Locations, Places: deps.Places}
	tripHandler := &handlers.TripHandler{Session: deps.Session}
	overlayHandler := &handlers.OverlayHandler{Session: deps.Session}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/health", handlers.Health)

	r.Get("/places", placeHandler.Suggest)
	r.Get("/places/reverse", placeHandler.Reverse)

	r.Get("/locations", locationHandler.List)
	r.Put("/locations/{kind}", locationHandler.Set)

	r.Post("/trips", tripHandler.Start)
	r.Get("/trips/current", tripHandler.Current)
	r.Delete("/trips/current", tripHandler.Cancel)

	r.Post("/overlay", overlayHandler.Start)
	r.Get("/overlay", overlayHandler.Get)
	r.Delete("/overlay", overlayHandler.Cancel)

	return r
}
