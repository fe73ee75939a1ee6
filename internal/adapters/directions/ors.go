package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"ride-sim-service/internal/domain"
	"ride-sim-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			ID    string `json:"id"`
			GID   string `json:"gid"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry lineGeometry `json:"geometry"`
	} `json:"features"`
}

// ORSClient implements Geocoder and DirectionsProvider using OpenRouteService.
//
// The client is safe for concurrent use.
type ORSClient struct {
	http    httpClient
	profile string
	country string
	logger  *zap.Logger
}

type ORSOption func(*ORSClient)

func WithORSBaseURL(u string) ORSOption {
	return func(c *ORSClient) { c.http.baseURL = strings.TrimRight(u, "/") }
}

func WithORSHTTPClient(hc *http.Client) ORSOption {
	return func(c *ORSClient) { c.http.session = hc }
}

func NewORSClient(apiKey, country string, logger *zap.Logger, opts ...ORSOption) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ORSClient{
		http: httpClient{
			session: &http.Client{Timeout: 10 * time.Second},
			baseURL: defaultORSBaseURL,
			authorize: func(req *http.Request) {
				req.Header.Set("Authorization", apiKey)
			},
		},
		profile: "driving-car",
		country: country,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// normalize collapses whitespace so equivalent queries hit the same results.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Suggest resolves free text with the ORS autocomplete endpoint (/geocode/autocomplete).
func (o *ORSClient) Suggest(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.Suggestion, err error) {
	defer obs.Time(ctx, o.logger, "ors.Suggest")(&err)

	req, err := o.http.newRequest(ctx, http.MethodGet, o.http.baseURL+"/geocode/autocomplete", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, err)
	}

	q := req.URL.Query()
	q.Set("text", normalize(query))
	q.Set("size", strconv.Itoa(limit))
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}
	req.URL.RawQuery = q.Encode()

	var decoded orsGeocodeResponse
	if err := o.http.doJSON(req, &decoded); err != nil {
		return nil, fmt.Errorf("%w: suggest %q: %w", domain.ErrGeocodingFailed, query, err)
	}

	out := make([]domain.Suggestion, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		c, err := domain.CoordinatesFromList(f.Geometry.Coordinates)
		if err != nil {
			o.logger.Debug("skipping suggestion with bad geometry", zap.String("label", f.Properties.Label), zap.Error(err))
			continue
		}

		id := f.Properties.GID
		if id == "" {
			id = f.Properties.ID
		}
		out = append(out, domain.Suggestion{ID: id, Label: f.Properties.Label, Coordinates: c})
	}

	return out, nil
}

// Reverse returns the label of the closest feature (/geocode/reverse).
func (o *ORSClient) Reverse(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, o.logger, "ors.Reverse")(&err)

	req, err := o.http.newRequest(ctx, http.MethodGet, o.http.baseURL+"/geocode/reverse", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, err)
	}

	q := req.URL.Query()
	q.Set("point.lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	q.Set("point.lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	var decoded orsGeocodeResponse
	if err := o.http.doJSON(req, &decoded); err != nil {
		return "", fmt.Errorf("%w: reverse %s: %w", domain.ErrGeocodingFailed, c, err)
	}

	if len(decoded.Features) == 0 || strings.TrimSpace(decoded.Features[0].Properties.Label) == "" {
		return "", fmt.Errorf("%w: no address for %s", domain.ErrGeocodingFailed, c)
	}

	return decoded.Features[0].Properties.Label, nil
}

// Directions requests a GeoJSON route (/v2/directions/{profile}/geojson).
func (o *ORSClient) Directions(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ [][]domain.Coordinates, err error) {
	defer obs.Time(ctx, o.logger, "ors.Directions")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.http.baseURL, o.profile)

	payload, err := json.Marshal(orsDirectionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal directions request: %w", domain.ErrDirectionsFailed, err)
	}

	req, err := o.http.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectionsFailed, err)
	}

	var decoded orsDirectionsResponse
	if err := o.http.doJSON(req, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %w", domain.ErrDirectionsFailed, origin, destination, err)
	}

	out := make([][]domain.Coordinates, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		path, err := f.Geometry.toPath()
		if err != nil {
			return nil, fmt.Errorf("%w: route %d: %w", domain.ErrDirectionsFailed, i, err)
		}
		out = append(out, path)
	}

	return out, nil
}
