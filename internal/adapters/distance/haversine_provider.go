package distance

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/geo"
	"delivery-tour-service/internal/ports"
	"errors"
	"strconv"
)

// HaversineProvider estimates travel minutes from great-circle distance at a
// constant average speed. It never calls out and is safe for concurrent use.
type HaversineProvider struct {
	speedKmph float64
}

func NewHaversineProvider(speedKmph float64) (*HaversineProvider, error) {
	if speedKmph <= 0 {
		return nil, errors.New("haversine provider: speed must be positive")
	}
	return &HaversineProvider{speedKmph: speedKmph}, nil
}

func (h *HaversineProvider) DurationMatrix(ctx context.Context, points []domain.Coordinates) (domain.DurationMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return geo.DurationMatrix(points, h.speedKmph), nil
}

// AtSpeed returns a provider estimating at speedKmph.
func (h *HaversineProvider) AtSpeed(speedKmph float64) (ports.DurationMatrixProvider, bool) {
	if speedKmph <= 0 || speedKmph == h.speedKmph {
		return h, true
	}
	return &HaversineProvider{speedKmph: speedKmph}, true
}

// Name identifies the estimate and its speed in cache keys.
func (h *HaversineProvider) Name() string {
	return "haversine:" + strconv.FormatFloat(h.speedKmph, 'f', -1, 64)
}
