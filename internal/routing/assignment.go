package routing

import (
	"context"
	"fmt"
	"time"
)

// Solver is any search capability that can assign every customer index to a
// vehicle route. A nil Assignment with a nil error means no feasible solution
// was found within the budget.
type Solver interface {
	Solve(ctx context.Context, model *Model, budget time.Duration) (*Assignment, error)
}

// Assignment is a solved successor relation over the model's indices.
type Assignment struct {
	manager   *IndexManager
	next      []int
	objective int
}

// NewAssignment builds the successor relation from per-vehicle customer sequences.
func NewAssignment(model *Model, routes [][]int) (*Assignment, error) {
	mgr := model.Manager()
	if len(routes) != mgr.NumVehicles() {
		return nil, fmt.Errorf("new assignment: %w: %d routes for %d vehicles", ErrInvalidModel, len(routes), mgr.NumVehicles())
	}

	next := make([]int, mgr.Size())
	for i := range next {
		next[i] = -1
	}

	visited := make([]bool, mgr.NumCustomers())
	objective := 0
	for v, r := range routes {
		prev := mgr.Start(v)
		for _, idx := range r {
			if !mgr.IsCustomer(idx) {
				return nil, fmt.Errorf("new assignment: %w: index %d is not a customer", ErrInvalidModel, idx)
			}
			if visited[idx] {
				return nil, fmt.Errorf("new assignment: %w: index %d visited twice", ErrInvalidModel, idx)
			}
			visited[idx] = true
			next[prev] = idx
			prev = idx
		}
		next[prev] = mgr.End(v)
		objective += model.RouteCost(v, r)
	}
	for idx, ok := range visited {
		if !ok {
			return nil, fmt.Errorf("new assignment: %w: index %d is not visited", ErrInvalidModel, idx)
		}
	}

	return &Assignment{manager: mgr, next: next, objective: objective}, nil
}

// Next returns the successor of a start or customer index.
func (a *Assignment) Next(index int) int { return a.next[index] }

// ObjectiveValue is the total arc cost of the assignment.
func (a *Assignment) ObjectiveValue() int { return a.objective }

// Route returns the customer indices visited by a vehicle, in order.
func (a *Assignment) Route(vehicle int) []int {
	var out []int
	for idx := a.next[a.manager.Start(vehicle)]; !a.manager.IsEnd(idx); idx = a.next[idx] {
		out = append(out, idx)
	}
	return out
}
