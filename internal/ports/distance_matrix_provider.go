package ports

import (
	"context"
	"delivery-tour-service/internal/domain"
)

// Contract for producing the travel duration matrix of an ordered point list.
// Row and column i of the result correspond to points[i]; entries are whole minutes.
type DurationMatrixProvider interface {
	DurationMatrix(ctx context.Context, points []domain.Coordinates) (domain.DurationMatrix, error)
}

// SpeedBound providers derive durations from an average speed. AtSpeed returns
// a provider for speedKmph, or false when durations do not depend on speed.
type SpeedBound interface {
	AtSpeed(speedKmph float64) (DurationMatrixProvider, bool)
}

// AtSpeed rebinds p to speedKmph when p supports it.
func AtSpeed(p DurationMatrixProvider, speedKmph float64) (DurationMatrixProvider, bool) {
	sb, ok := p.(SpeedBound)
	if !ok {
		return p, false
	}
	return sb.AtSpeed(speedKmph)
}

// Contract for caching whole duration matrices under an opaque key.
type MatrixCache interface {
	// GetMatrix reports false on a miss.
	GetMatrix(ctx context.Context, key string) (domain.DurationMatrix, bool, error)
	PutMatrix(ctx context.Context, key string, m domain.DurationMatrix) error
}
