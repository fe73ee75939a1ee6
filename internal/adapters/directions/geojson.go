package directions

import (
	"fmt"
	"ride-sim-service/internal/domain"
)

type lineGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// toPath converts GeoJSON [lon, lat] positions to a validated polyline.
func (g lineGeometry) toPath() ([]domain.Coordinates, error) {
	if len(g.Coordinates) < 2 {
		return nil, fmt.Errorf("route geometry has %d points", len(g.Coordinates))
	}

	path := make([]domain.Coordinates, 0, len(g.Coordinates))
	for i, p := range g.Coordinates {
		// GeoJSON positions may carry elevation as a third value.
		if len(p) > 2 {
			p = p[:2]
		}
		c, err := domain.CoordinatesFromList(p)
		if err != nil {
			return nil, fmt.Errorf("route geometry point %d: %w", i, err)
		}
		path = append(path, c)
	}
	return path, nil
}
