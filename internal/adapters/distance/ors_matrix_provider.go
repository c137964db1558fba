package distance

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/platform/obs"
	"delivery-tour-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultORSProfile = "driving-car"
)

// ORSMatrixProvider implements DurationMatrixProvider using the
// OpenRouteService matrix endpoint.
//
// It coordinates:
//   - Persistent per-pair caching keyed by coordinates
//   - One full N×N matrix request for any cache miss
//   - External API calls with retry/backoff
//
// Durations are floored to whole minutes. The provider is safe for concurrent use.
type ORSMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	backoff time.Duration
	cache   ports.DistanceCache
}

type ORSOption func(*ORSMatrixProvider)

// WithBaseURL points the provider at another ORS deployment.
func WithBaseURL(url string) ORSOption {
	return func(o *ORSMatrixProvider) { o.baseURL = url }
}

func WithProfile(profile string) ORSOption {
	return func(o *ORSMatrixProvider) { o.profile = profile }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSMatrixProvider) { o.session = c }
}

func WithRetryBackoff(d time.Duration) ORSOption {
	return func(o *ORSMatrixProvider) { o.backoff = d }
}

func NewORSMatrixProvider(apiKey string, cache ports.DistanceCache, opts ...ORSOption) (*ORSMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSMatrixProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		profile: defaultORSProfile,
		backoff: orsInitialBackoff,
		cache:   cache,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Name identifies the provider and profile in cache keys.
func (o *ORSMatrixProvider) Name() string { return "ors:" + o.profile }

// DurationMatrix returns travel minutes between every pair of points.
func (o *ORSMatrixProvider) DurationMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ domain.DurationMatrix, err error) {
	defer obs.Time(ctx, "ors.DurationMatrix")(&err)

	n := len(points)
	if n == 0 {
		return domain.DurationMatrix{}, nil
	}
	if n == 1 {
		return domain.DurationMatrix{{0}}, nil
	}

	keys := make([]string, n)
	for i, p := range points {
		keys[i] = p.Key()
	}

	// Check persistent distance cache before issuing external API calls.
	if o.cache != nil {
		m, complete, err := o.fromCache(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("ORS get distance cache: %w", err)
		}
		if complete {
			return m, nil
		}
	}

	results, err := o.fetchMatrix(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix: %w", err)
	}

	if o.cache != nil {
		for i := range keys {
			row := make(map[string]ports.DistanceResult, n-1)
			for j := range keys {
				if keys[i] != keys[j] {
					row[keys[j]] = results[i][j]
				}
			}
			if err := o.cache.PutMany(ctx, keys[i], row); err != nil {
				log.Printf("distance cache write failed: origin=%s err=%v", keys[i], err)
				break
			}
		}
	}

	m := make(domain.DurationMatrix, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if keys[i] != keys[j] {
				m[i][j] = secondsToMinutes(results[i][j].DurationSeconds)
			}
		}
	}
	return m, nil
}

// fromCache assembles the matrix from cached pairs and reports whether every
// pair was present.
func (o *ORSMatrixProvider) fromCache(ctx context.Context, keys []string) (domain.DurationMatrix, bool, error) {
	n := len(keys)
	m := make(domain.DurationMatrix, n)

	for i := range keys {
		dests := make([]string, 0, n-1)
		for j := range keys {
			if keys[j] != keys[i] {
				dests = append(dests, keys[j])
			}
		}

		hits, err := o.cache.GetMany(ctx, keys[i], dests)
		if err != nil {
			return nil, false, err
		}

		m[i] = make([]int, n)
		for j := range keys {
			if keys[j] == keys[i] {
				continue
			}
			r, ok := hits[keys[j]]
			if !ok {
				return nil, false, nil
			}
			m[i][j] = secondsToMinutes(r.DurationSeconds)
		}
	}

	return m, true, nil
}

func secondsToMinutes(seconds int) int { return seconds / 60 }
