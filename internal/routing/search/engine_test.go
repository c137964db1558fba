package search

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/routing"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fleet(drivers, trips, capacity, maxMinutes int) domain.FleetConfig {
	return domain.FleetConfig{
		DriverCount:       drivers,
		TripsPerDriver:    trips,
		VehicleCapacity:   capacity,
		MaxMinutesPerTrip: maxMinutes,
		TimeBudget:        time.Second,
		AverageSpeedKmph:  domain.DefaultAverageSpeedKmph,
	}
}

func quickParams() Parameters {
	p := DefaultParameters()
	p.TimeLimit = 2 * time.Second
	p.MaxStallRounds = 50
	return p
}

// randomModel builds an asymmetric instance with the depot at node 0.
func randomModel(t *testing.T, seed int64, customers int, f domain.FleetConfig) *routing.Model {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	n := customers + 1

	matrix := make(domain.DurationMatrix, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = 1 + r.Intn(20)
			}
		}
	}
	demands := make([]int, n)
	for i := 1; i < n; i++ {
		demands[i] = 1 + r.Intn(6)
	}

	model, err := routing.Build(routing.Input{Matrix: matrix, Demands: demands, DepotIndex: 0}, f)
	require.NoError(t, err)
	return model
}

func assertFeasible(t *testing.T, model *routing.Model, asg *routing.Assignment) {
	t.Helper()
	mgr := model.Manager()
	seen := 0
	total := 0
	for v := 0; v < mgr.NumVehicles(); v++ {
		route := asg.Route(v)
		seen += len(route)
		total += model.RouteCost(v, route)
		assert.True(t, model.RouteFeasible(v, route), "vehicle %d route %v infeasible", v, route)
	}
	assert.Equal(t, mgr.NumCustomers(), seen)
	assert.Equal(t, total, asg.ObjectiveValue())
}

func TestSolveSingleTrip(t *testing.T) {
	matrix := domain.DurationMatrix{
		{0, 10, 12, 9},
		{10, 0, 4, 15},
		{12, 4, 0, 11},
		{9, 15, 11, 0},
	}
	model, err := routing.Build(routing.Input{
		Matrix:     matrix,
		Demands:    []int{0, 5, 5, 5},
		DepotIndex: 0,
	}, fleet(1, 1, 33, 720))
	require.NoError(t, err)

	asg, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	require.NotNil(t, asg)

	route := asg.Route(0)
	assert.Len(t, route, 3)

	capDim, ok := model.Dimension(routing.DimensionCapacity)
	require.True(t, ok)
	cumuls := model.Cumuls(capDim, 0, route)
	assert.Equal(t, 15, cumuls[len(cumuls)-1])

	// 0 -> 3 -> 2 -> 1 -> 0 and its reverse both cost 9+11+4+10 = 34.
	assert.Equal(t, 34, asg.ObjectiveValue())
}

func TestSolveOversizedDemandHasNoSolution(t *testing.T) {
	matrix := domain.DurationMatrix{
		{0, 5, 5},
		{5, 0, 5},
		{5, 5, 0},
	}
	model, err := routing.Build(routing.Input{
		Matrix:     matrix,
		Demands:    []int{0, 40, 3},
		DepotIndex: 0,
	}, fleet(2, 2, 33, 720))
	require.NoError(t, err)

	asg, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	assert.Nil(t, asg)
}

func TestSolveTripTimeCapHasNoSolution(t *testing.T) {
	matrix := domain.DurationMatrix{
		{0, 400},
		{400, 0},
	}
	model, err := routing.Build(routing.Input{
		Matrix:     matrix,
		Demands:    []int{0, 1},
		DepotIndex: 0,
	}, fleet(1, 1, 33, 720))
	require.NoError(t, err)

	asg, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	assert.Nil(t, asg)
}

func TestSolveNoCustomers(t *testing.T) {
	model, err := routing.Build(routing.Input{
		Matrix:     domain.DurationMatrix{{0}},
		Demands:    []int{0},
		DepotIndex: 0,
	}, fleet(2, 2, 33, 720))
	require.NoError(t, err)

	asg, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	require.NotNil(t, asg)
	assert.Equal(t, 0, asg.ObjectiveValue())
}

func TestSolveRandomInstancesStayFeasible(t *testing.T) {
	f := fleet(2, 2, 20, 150)
	for seed := int64(1); seed <= 5; seed++ {
		model := randomModel(t, seed, 12, f)

		asg, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
		require.NoError(t, err)
		require.NotNil(t, asg, "seed %d", seed)
		assertFeasible(t, model, asg)
	}
}

func TestNoMetaheuristicIsDeterministic(t *testing.T) {
	f := fleet(2, 2, 20, 720)
	model := randomModel(t, 7, 10, f)

	p := quickParams()
	p.Metaheuristic = NoMetaheuristic

	first, err := NewEngine(p).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	second, err := NewEngine(p).Solve(context.Background(), model, 0)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	for v := 0; v < model.Manager().NumVehicles(); v++ {
		assert.Equal(t, first.Route(v), second.Route(v))
	}
	assert.Equal(t, first.ObjectiveValue(), second.ObjectiveValue())
}

func TestGuidedLocalSearchNeverWorseThanConstruction(t *testing.T) {
	f := fleet(2, 2, 20, 720)
	for seed := int64(11); seed <= 14; seed++ {
		model := randomModel(t, seed, 14, f)

		p := quickParams()
		p.Metaheuristic = NoMetaheuristic
		construction, err := NewEngine(p).Solve(context.Background(), model, 0)
		require.NoError(t, err)
		require.NotNil(t, construction)

		improved, err := NewEngine(quickParams()).Solve(context.Background(), model, 0)
		require.NoError(t, err)
		require.NotNil(t, improved)

		assert.LessOrEqual(t, improved.ObjectiveValue(), construction.ObjectiveValue(), "seed %d", seed)
		assertFeasible(t, model, improved)
	}
}

func TestParallelWorkers(t *testing.T) {
	f := fleet(3, 2, 15, 720)
	model := randomModel(t, 21, 16, f)

	base := quickParams()
	base.TimeLimit = 20 * time.Second

	p := base
	p.Workers = 4
	p.Seed = 42

	single, err := NewEngine(base).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	require.NotNil(t, single)

	multi, err := NewEngine(p).Solve(context.Background(), model, 0)
	require.NoError(t, err)
	require.NotNil(t, multi)

	assertFeasible(t, model, multi)
	assert.LessOrEqual(t, multi.ObjectiveValue(), single.ObjectiveValue())
}

func TestSolveReturnsConstructionWhenCancelled(t *testing.T) {
	f := fleet(2, 2, 20, 720)
	model := randomModel(t, 3, 10, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	asg, err := NewEngine(quickParams()).Solve(ctx, model, 0)
	require.NoError(t, err)
	require.NotNil(t, asg)
	assertFeasible(t, model, asg)
}

func TestSolveNilModel(t *testing.T) {
	_, err := NewEngine(DefaultParameters()).Solve(context.Background(), nil, 0)
	assert.ErrorIs(t, err, routing.ErrInvalidModel)
}

func TestWorkerRNG(t *testing.T) {
	assert.Nil(t, workerRNG(5, 0))

	a := workerRNG(5, 1).Int63()
	b := workerRNG(5, 1).Int63()
	c := workerRNG(5, 2).Int63()
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
