package ports

import "context"

// Distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for a persistent origin->destination travel cache.
// Keys are coordinate keys (see domain.Coordinates.Key).
type DistanceCache interface {
	// Return cached results for the destinations present in the cache.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
