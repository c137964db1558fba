package routing

import (
	"delivery-tour-service/internal/domain"
	"fmt"
)

// Dimension names registered by Build.
const (
	DimensionCapacity = "Capacity"
	DimensionTime     = "Time"
)

// Input is the read-only data a routing model is built from.
type Input struct {
	Matrix     domain.DurationMatrix
	Demands    []int
	DepotIndex int
}

// Build creates one vehicle per trip slot, all starting and ending at the depot,
// with travel minutes as the arc cost and two hard dimensions: cumulative load
// bounded by the vehicle capacity and cumulative travel time bounded by the
// per-trip cap.
func Build(in Input, fleet domain.FleetConfig) (*Model, error) {
	n := len(in.Matrix)
	if err := in.Matrix.Validate(n); err != nil {
		return nil, fmt.Errorf("build routing model: %w: %v", ErrInvalidModel, err)
	}
	if len(in.Demands) != n {
		return nil, fmt.Errorf("build routing model: %w: %d demands for %d nodes", ErrInvalidModel, len(in.Demands), n)
	}
	if fleet.TripsPerDriver < 1 || fleet.DriverCount < 1 {
		return nil, fmt.Errorf("build routing model: %w: fleet has no vehicle slots", ErrInvalidModel)
	}

	manager, err := NewIndexManager(n, fleet.TotalVehicleSlots(), in.DepotIndex)
	if err != nil {
		return nil, fmt.Errorf("build routing model: %w", err)
	}
	model := NewModel(manager)

	matrix := in.Matrix
	transit := model.RegisterTransitCallback(func(from, to int) int {
		return matrix[manager.IndexToNode(from)][manager.IndexToNode(to)]
	})
	if err := model.SetArcCostEvaluatorOfAllVehicles(transit); err != nil {
		return nil, fmt.Errorf("build routing model: %w", err)
	}

	demands := in.Demands
	demand := model.RegisterUnaryTransitCallback(func(from int) int {
		return demands[manager.IndexToNode(from)]
	})

	capacities := make([]int, manager.NumVehicles())
	for v := range capacities {
		capacities[v] = fleet.VehicleCapacity
	}
	if err := model.AddDimensionWithVehicleCapacity(demand, 0, capacities, true, DimensionCapacity); err != nil {
		return nil, fmt.Errorf("build routing model: %w", err)
	}

	if err := model.AddDimension(transit, 0, fleet.MaxMinutesPerTrip, true, DimensionTime); err != nil {
		return nil, fmt.Errorf("build routing model: %w", err)
	}

	return model, nil
}
