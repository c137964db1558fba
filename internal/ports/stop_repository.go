package ports

import (
	"context"
	"delivery-tour-service/internal/domain"
)

// Port: a boundary for retrieving delivery stops from a data source.
type StopRepository interface {
	// Retrieve all stops, depot included, in a stable order.
	ListStops(ctx context.Context) ([]domain.Stop, error)
}
