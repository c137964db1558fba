package services

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/geo"
	"delivery-tour-service/internal/platform/obs"
	"delivery-tour-service/internal/ports"
	"delivery-tour-service/internal/routing"
	"errors"
	"fmt"
	"log"
)

type PlanToursRequest struct {
	Stops domain.StopSet
	Fleet domain.FleetConfig

	// Matrix, when set, is used as is instead of asking the provider.
	Matrix domain.DurationMatrix
}

// PlanTours computes multi-trip tours for the fleet over the given stops.
//
// Invalid input fails with an error wrapping domain.ErrInvalidInput before any
// solving. A request with no demand returns a PlanNoWorkRequired plan, and a
// request the solver cannot satisfy returns a PlanInfeasible plan; both carry
// no itineraries and a nil error. Every call builds its own model, so
// concurrent calls do not share state.
func PlanTours(
	ctx context.Context,
	req PlanToursRequest,
	provider ports.DurationMatrixProvider,
	solver routing.Solver,
) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.tours")(&err)

	if solver == nil {
		return nil, errors.New("plan tours: solver is nil")
	}

	fleet := req.Fleet.WithDefaults()
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("plan tours: %w", err)
	}
	if err := req.Stops.Validate(); err != nil {
		return nil, fmt.Errorf("plan tours: %w", err)
	}
	if req.Matrix != nil {
		if err := req.Matrix.Validate(req.Stops.Len()); err != nil {
			return nil, fmt.Errorf("plan tours: %w", err)
		}
	}

	if req.Stops.TotalDemand() == 0 {
		log.Printf("plan tours: no demand stops=%d", req.Stops.Len())
		return domain.NewPlan(domain.PlanNoWorkRequired, req.Stops, fleet, nil), nil
	}

	if reason := precheckInfeasible(req.Stops, fleet); reason != "" {
		log.Printf("plan tours: infeasible reason=%q", reason)
		return domain.NewPlan(domain.PlanInfeasible, req.Stops, fleet, nil), nil
	}

	matrix, err := durationMatrix(ctx, req, fleet, provider)
	if err != nil {
		return nil, fmt.Errorf("plan tours: %w", err)
	}

	demands := req.Stops.Demands()
	model, err := routing.Build(routing.Input{
		Matrix:     matrix,
		Demands:    demands,
		DepotIndex: req.Stops.DepotIndex(),
	}, fleet)
	if err != nil {
		return nil, fmt.Errorf("plan tours: %w", err)
	}

	asg, err := solver.Solve(ctx, model, fleet.TimeBudget)
	if err != nil {
		return nil, fmt.Errorf("plan tours: solve: %w", err)
	}
	if asg == nil {
		log.Printf("plan tours: infeasible reason=%q", "no assignment found")
		return domain.NewPlan(domain.PlanInfeasible, req.Stops, fleet, nil), nil
	}

	routes := DecodeAssignment(model, demands, asg)
	itineraries := AggregateByDriver(routes, fleet.TripsPerDriver)

	plan := domain.NewPlan(domain.PlanSolved, req.Stops, fleet, itineraries)
	log.Printf(
		"plan tours: solved plan_id=%s drivers=%d trips=%d total_min=%d",
		plan.ID, len(plan.Itineraries), len(routes), plan.TotalMinutes,
	)
	return plan, nil
}

// PlanAndPublish runs PlanTours and hands the result to publisher.
// Publication failures are logged and do not fail the call.
func PlanAndPublish(
	ctx context.Context,
	req PlanToursRequest,
	provider ports.DurationMatrixProvider,
	solver routing.Solver,
	publisher ports.PlanPublisher,
) (*domain.Plan, error) {
	plan, err := PlanTours(ctx, req, provider, solver)
	if err != nil {
		return nil, err
	}
	if publisher != nil {
		if err := publisher.PublishPlan(ctx, plan); err != nil {
			log.Printf("plan tours: publish failed plan_id=%s err=%v", plan.ID, err)
		}
	}
	return plan, nil
}

// LoadStops reads the stop table from the repository.
func LoadStops(ctx context.Context, repo ports.StopRepository) (domain.StopSet, error) {
	if repo == nil {
		return domain.StopSet{}, errors.New("load stops: repository is nil")
	}
	stops, err := repo.ListStops(ctx)
	if err != nil {
		return domain.StopSet{}, fmt.Errorf("load stops: %w", err)
	}
	return domain.NewStopSet(stops), nil
}

// precheckInfeasible returns a reason when the request cannot be served by any
// assignment, or "" when the solver has to decide.
func precheckInfeasible(stops domain.StopSet, fleet domain.FleetConfig) string {
	if m := stops.MaxDemand(); m > fleet.VehicleCapacity {
		return fmt.Sprintf("stop demand %d exceeds vehicle capacity %d", m, fleet.VehicleCapacity)
	}
	if total, capacity := stops.TotalDemand(), fleet.TotalVehicleSlots()*fleet.VehicleCapacity; total > capacity {
		return fmt.Sprintf("total demand %d exceeds fleet capacity %d", total, capacity)
	}
	return ""
}

// durationMatrix picks the request matrix, then the provider, then the
// haversine estimate. Speed-bound providers are rebound to the fleet's
// average speed.
func durationMatrix(
	ctx context.Context,
	req PlanToursRequest,
	fleet domain.FleetConfig,
	provider ports.DurationMatrixProvider,
) (domain.DurationMatrix, error) {
	if req.Matrix != nil {
		return req.Matrix, nil
	}

	points := req.Stops.Coordinates()
	if provider == nil {
		return geo.DurationMatrix(points, fleet.AverageSpeedKmph), nil
	}
	if p, ok := ports.AtSpeed(provider, fleet.AverageSpeedKmph); ok {
		provider = p
	}

	m, err := provider.DurationMatrix(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("duration matrix: %w", err)
	}
	if err := m.Validate(len(points)); err != nil {
		return nil, fmt.Errorf("duration matrix: provider returned malformed matrix: %v", err)
	}
	return m, nil
}
