package ports

import (
	"context"
	"delivery-tour-service/internal/domain"
)

// Port: a sink notified of every finished plan.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan *domain.Plan) error
}
