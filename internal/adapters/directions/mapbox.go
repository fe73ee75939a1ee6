package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

type mapboxGeocodeResponse struct {
	Features []struct {
		ID        string    `json:"id"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

type mapboxDirectionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry lineGeometry `json:"geometry"`
	} `json:"routes"`
}

// MapboxClient implements Geocoder and DirectionsProvider on the Mapbox web APIs.
type MapboxClient struct {
	http    httpClient
	country string
	profile string
	logger  *zap.Logger
}

type MapboxOption func(*MapboxClient)

// WithMapboxBaseURL points the client at another host (tests, proxies).
func WithMapboxBaseURL(u string) MapboxOption {
	return func(c *MapboxClient) { c.http.baseURL = strings.TrimRight(u, "/") }
}

func WithMapboxHTTPClient(hc *http.Client) MapboxOption {
	return func(c *MapboxClient) { c.http.session = hc }
}

func NewMapboxClient(token, country string, logger *zap.Logger, opts ...MapboxOption) (*MapboxClient, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("mapbox access token is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &MapboxClient{
		http: httpClient{
			session: &http.Client{Timeout: 10 * time.Second},
			baseURL: defaultMapboxBaseURL,
			authorize: func(req *http.Request) {
				q := req.URL.Query()
				q.Set("access_token", token)
				req.URL.RawQuery = q.Encode()
			},
		},
		country: country,
		profile: "driving",
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func formatLonLat(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Suggest queries forward geocoding and returns features in service order.
func (m *MapboxClient) Suggest(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Suggestion, err error) {
	defer obs.Time(ctx, m.logger, "mapbox.Suggest")(&err)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", m.http.baseURL, url.PathEscape(query))
	req, err := m.http.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, err)
	}

	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if m.country != "" {
		q.Set("country", m.country)
	}
	req.URL.RawQuery = q.Encode()

	var decoded mapboxGeocodeResponse
	if err := m.http.doJSON(req, &decoded); err != nil {
		return nil, fmt.Errorf("%w: suggest %q: %w", domain.ErrGeocodingFailed, query, err)
	}

	out := make([]domain.Suggestion, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		c, err := domain.CoordinatesFromList(f.Center)
		if err != nil {
			m.logger.Debug("skipping suggestion with bad center", zap.String("id", f.ID), zap.Error(err))
			continue
		}
		out = append(out, domain.Suggestion{ID: f.ID, Label: f.PlaceName, Coordinates: c})
	}

	return out, nil
}

// Reverse returns the place name of the best feature at c.
func (m *MapboxClient) Reverse(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, m.logger, "mapbox.Reverse")(&err)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", m.http.baseURL, formatLonLat(c))
	req, err := m.http.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, err)
	}

	q := req.URL.Query()
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	var decoded mapboxGeocodeResponse
	if err := m.http.doJSON(req, &decoded); err != nil {
		return "", fmt.Errorf("%w: reverse %s: %w", domain.ErrGeocodingFailed, c, err)
	}

	if len(decoded.Features) == 0 || strings.TrimSpace(decoded.Features[0].PlaceName) == "" {
		return "", fmt.Errorf("%w: no address for %s", domain.ErrGeocodingFailed, c)
	}

	return decoded.Features[0].PlaceName, nil
}

// Directions fetches driving routes between two coordinates as GeoJSON polylines.
func (m *MapboxClient) Directions(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ [][]domain.Coordinates, err error) {
	defer obs.Time(ctx, m.logger, "mapbox.Directions")(&err)

	endpoint := fmt.Sprintf(
		"%s/directions/v5/mapbox/%s/%s;%s",
		m.http.baseURL, m.profile, formatLonLat(origin), formatLonLat(destination),
	)
	req, err := m.http.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectionsFailed, err)
	}

	q := req.URL.Query()
	q.Set("geometries", "geojson")
	req.URL.RawQuery = q.Encode()

	var decoded mapboxDirectionsResponse
	if err := m.http.doJSON(req, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %w", domain.ErrDirectionsFailed, origin, destination, err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		return nil, fmt.Errorf("%w: %s -> %s: service code %s", domain.ErrDirectionsFailed, origin, destination, decoded.Code)
	}

	out := make([][]domain.Coordinates, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		path, err := r.Geometry.toPath()
		if err != nil {
			return nil, fmt.Errorf("%w: route %d: %w", domain.ErrDirectionsFailed, i, err)
		}
		out = append(out, path)
	}

	return out, nil
}
