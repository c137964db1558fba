package services

import (
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/routing"
	"testing"
)

func decodeFixture(t *testing.T) (*routing.Model, []int) {
	t.Helper()

	matrix := domain.DurationMatrix{
		{0, 10, 20, 30},
		{10, 0, 5, 25},
		{20, 5, 0, 15},
		{30, 25, 15, 0},
	}
	demands := []int{0, 4, 6, 8}
	fleet := domain.FleetConfig{
		DriverCount:       2,
		TripsPerDriver:    2,
		VehicleCapacity:   33,
		MaxMinutesPerTrip: 720,
		TimeBudget:        domain.DefaultTimeBudget,
		AverageSpeedKmph:  domain.DefaultAverageSpeedKmph,
	}

	model, err := routing.Build(routing.Input{Matrix: matrix, Demands: demands, DepotIndex: 0}, fleet)
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return model, demands
}

func TestDecodeAssignment(t *testing.T) {
	model, demands := decodeFixture(t)
	mgr := model.Manager()

	// Customers 1,2,3 occupy indices 0,1,2. Slot 1 visits 1 then 2, slot 3 visits 3.
	asg, err := routing.NewAssignment(model, [][]int{
		nil,
		{mgr.NodeToIndex(1), mgr.NodeToIndex(2)},
		nil,
		{mgr.NodeToIndex(3)},
	})
	if err != nil {
		t.Fatalf("new assignment: %v", err)
	}

	routes := DecodeAssignment(model, demands, asg)
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	first := routes[0]
	if first.Slot != 1 || first.Route.VehicleSlot != 2 {
		t.Fatalf("first route slot=%d vehicle_slot=%d, want 1 and 2", first.Slot, first.Route.VehicleSlot)
	}
	if first.Route.Minutes != 10+5+20 {
		t.Fatalf("first route minutes = %d, want 35", first.Route.Minutes)
	}

	want := []domain.RouteNode{
		{StopIndex: 0, Load: 0},
		{StopIndex: 1, Load: 4},
		{StopIndex: 2, Load: 10},
		{StopIndex: 0, Load: 10},
	}
	if len(first.Route.Path) != len(want) {
		t.Fatalf("path = %+v, want %+v", first.Route.Path, want)
	}
	for i := range want {
		if first.Route.Path[i] != want[i] {
			t.Fatalf("path[%d] = %+v, want %+v", i, first.Route.Path[i], want[i])
		}
	}

	second := routes[1]
	if second.Slot != 3 || second.Route.Minutes != 60 || second.Route.Load() != 8 {
		t.Fatalf("second route = %+v", second)
	}
}

func TestDecodeAssignmentSkipsEmptySlots(t *testing.T) {
	model, demands := decodeFixture(t)
	mgr := model.Manager()

	asg, err := routing.NewAssignment(model, [][]int{
		{mgr.NodeToIndex(1), mgr.NodeToIndex(2), mgr.NodeToIndex(3)},
		nil, nil, nil,
	})
	if err != nil {
		t.Fatalf("new assignment: %v", err)
	}

	routes := DecodeAssignment(model, demands, asg)
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].Route.Load() != 18 {
		t.Fatalf("load = %d, want 18", routes[0].Route.Load())
	}
	if got := routes[0].Route.Minutes; got != asg.ObjectiveValue() {
		t.Fatalf("minutes = %d, want objective %d", got, asg.ObjectiveValue())
	}
}
