package cache

import (
	"encoding/json"
	"fmt"
	"ride-sim-service/internal/domain"
)

// pointKey renders a coordinate at ~10cm precision so float noise from clients
// does not split otherwise identical routes.
func pointKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

func encodePath(path []domain.Coordinates) (string, error) {
	if len(path) < 2 {
		return "", fmt.Errorf("encode path: need at least two points, got %d", len(path))
	}

	pairs := make([][]float64, 0, len(path))
	for _, c := range path {
		pairs = append(pairs, c.CoordsToList())
	}

	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

func decodePath(raw string) ([]domain.Coordinates, error) {
	var pairs [][]float64
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}

	path := make([]domain.Coordinates, 0, len(pairs))
	for i, p := range pairs {
		c, err := domain.CoordinatesFromList(p)
		if err != nil {
			return nil, fmt.Errorf("decode path point %d: %w", i, err)
		}
		path = append(path, c)
	}
	return path, nil
}
