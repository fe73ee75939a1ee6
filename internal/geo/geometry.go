package geo

import (
	"math"

	"ride-sim-service/internal/domain"
)

const earthRadiusMeters = 6371000

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine calculates the great-circle distance between two points in meters.
func Haversine(a, b domain.Coordinates) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	deltaPhi := toRadians(b.Lat - a.Lat)
	deltaLambda := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Bearing calculates the initial compass bearing from a to b in degrees, normalized to [0, 360).
// Bearing(a, a) is 0.
func Bearing(a, b domain.Coordinates) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	deltaLambda := toRadians(b.Lon - a.Lon)

	x := math.Sin(deltaLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	bearing := math.Mod(math.Atan2(x, y)*180/math.Pi+360, 360)
	// Mod can return 360 for tiny negative angles after rounding.
	if bearing >= 360 {
		bearing -= 360
	}
	return bearing
}

// Lerp linearly interpolates between two coordinates. fraction is clamped to [0, 1]
// and the endpoints are returned exactly at 0 and 1.
func Lerp(start, end domain.Coordinates, fraction float64) domain.Coordinates {
	switch {
	case fraction <= 0:
		return start
	case fraction >= 1:
		return end
	}
	return domain.Coordinates{
		Lon: start.Lon + (end.Lon-start.Lon)*fraction,
		Lat: start.Lat + (end.Lat-start.Lat)*fraction,
	}
}

// PathLength calculates the total length of a polyline in meters.
func PathLength(path []domain.Coordinates) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1], path[i])
	}
	return total
}
