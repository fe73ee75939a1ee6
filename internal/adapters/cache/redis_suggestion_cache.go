package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const suggestionKeyPrefix = "ridesim:suggest:"

type cachedSuggestion struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Lnglat []float64 `json:"lnglat"`
}

// RedisSuggestionCache stores geocoding suggestions per normalized query with a TTL.
type RedisSuggestionCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSuggestionCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client, ttl: ttl, logger: logger}
}

func suggestionKey(query string) string {
	return suggestionKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (r *RedisSuggestionCache) Get(ctx context.Context, query string) (_ []domain.Suggestion, _ bool, err error) {
	defer obs.Time(ctx, r.logger, "suggest.cache.redis.Get")(&err)

	raw, err := r.client.Get(ctx, suggestionKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: %w", err)
	}

	var stored []cachedSuggestion
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: decode: %w", err)
	}

	out := make([]domain.Suggestion, 0, len(stored))
	for i, s := range stored {
		c, err := domain.CoordinatesFromList(s.Lnglat)
		if err != nil {
			return nil, false, fmt.Errorf("get suggestion cache: entry %d: %w", i, err)
		}
		out = append(out, domain.Suggestion{ID: s.ID, Label: s.Label, Coordinates: c})
	}
	return out, true, nil
}

func (r *RedisSuggestionCache) Put(ctx context.Context, query string, suggestions []domain.Suggestion) error {
	stored := make([]cachedSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		stored = append(stored, cachedSuggestion{ID: s.ID, Label: s.Label, Lnglat: s.Coordinates.CoordsToList()})
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("put suggestion cache: encode: %w", err)
	}

	if err := r.client.Set(ctx, suggestionKey(query), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("put suggestion cache: %w", err)
	}
	return nil
}
