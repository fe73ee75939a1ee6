package directions

import (
	"context"
	"fmt"
	"ride-sim-service/internal/domain"
	"sync"
)

type MockRoute struct {
	From, To domain.Coordinates
	Path     []domain.Coordinates
}

// MockProvider serves fixed routes and suggestions; unknown pairs fail with ErrDirectionsFailed.
type MockProvider struct {
	mu          sync.Mutex
	routes      map[string][]domain.Coordinates
	suggestions []domain.Suggestion
	addresses   map[domain.Coordinates]string
	fail        error
	calls       int
}

func NewMockProvider(routes []MockRoute) *MockProvider {
	m := make(map[string][]domain.Coordinates, len(routes))
	for _, r := range routes {
		m[pairKey(r.From, r.To)] = r.Path
	}
	return &MockProvider{routes: m, addresses: map[domain.Coordinates]string{}}
}

func pairKey(from, to domain.Coordinates) string {
	return formatLonLat(from) + "|" + formatLonLat(to)
}

// Fail makes every subsequent call return err (nil restores normal behavior).
func (p *MockProvider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *MockProvider) SetSuggestions(s []domain.Suggestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestions = s
}

func (p *MockProvider) SetAddress(c domain.Coordinates, address string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addresses[c] = address
}

// Calls returns how many provider calls were made.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockProvider) Directions(ctx context.Context, origin, destination domain.Coordinates) ([][]domain.Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if p.fail != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectionsFailed, p.fail)
	}

	path, ok := p.routes[pairKey(origin, destination)]
	if !ok {
		return nil, fmt.Errorf("%w: missing pair %s -> %s", domain.ErrDirectionsFailed, origin, destination)
	}

	return [][]domain.Coordinates{append([]domain.Coordinates(nil), path...)}, nil
}

func (p *MockProvider) Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if p.fail != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, p.fail)
	}
	return append([]domain.Suggestion(nil), p.suggestions...), nil
}

func (p *MockProvider) Reverse(ctx context.Context, c domain.Coordinates) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if p.fail != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeocodingFailed, p.fail)
	}
	addr, ok := p.addresses[c]
	if !ok {
		return "", fmt.Errorf("%w: no address for %s", domain.ErrGeocodingFailed, c)
	}
	return addr, nil
}
