package services

import (
	"context"
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/ports"
	"strings"

	"go.uber.org/zap"
)

// MaxSuggestions caps what the autocomplete list shows.
const MaxSuggestions = 5

// PlaceService resolves rider input to places. Geocoding failures never block the rider:
// suggestions degrade to an error the caller can show, addresses degrade to coordinate text.
type PlaceService struct {
	geocoder ports.Geocoder
	cache    ports.SuggestionCache
	logger   *zap.Logger
}

// NewPlaceService wires a geocoder and an optional suggestion cache (nil disables caching).
func NewPlaceService(geocoder ports.Geocoder, cache ports.SuggestionCache, logger *zap.Logger) *PlaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaceService{geocoder: geocoder, cache: cache, logger: logger}
}

// Suggest returns at most MaxSuggestions places for query in provider order.
// A blank query returns an empty list without calling the provider.
func (s *PlaceService) Suggest(ctx context.Context, query string) ([]domain.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Suggestion{}, nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, query)
		switch {
		case err != nil:
			s.logger.Warn("suggestion cache read failed", zap.String("query", query), zap.Error(err))
		case ok:
			return truncate(cached), nil
		}
	}

	found, err := s.geocoder.Suggest(ctx, query, MaxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("suggest places: %w", err)
	}
	found = truncate(found)

	if s.cache != nil {
		if err := s.cache.Put(ctx, query, found); err != nil {
			s.logger.Warn("suggestion cache write failed", zap.String("query", query), zap.Error(err))
		}
	}

	return found, nil
}

func truncate(s []domain.Suggestion) []domain.Suggestion {
	if s == nil {
		return []domain.Suggestion{}
	}
	if len(s) > MaxSuggestions {
		return s[:MaxSuggestions]
	}
	return s
}

// ReverseAddress returns a display address for c. On any geocoding failure it falls back
// to the coordinate rendered as "lat, lng".
func (s *PlaceService) ReverseAddress(ctx context.Context, c domain.Coordinates) string {
	addr, err := s.geocoder.Reverse(ctx, c)
	if err != nil {
		s.logger.Info("reverse geocoding failed, using coordinates", zap.Stringer("coordinates", c), zap.Error(err))
		return c.String()
	}

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return c.String()
	}
	return addr
}
