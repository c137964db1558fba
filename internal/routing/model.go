package routing

import (
	"errors"
	"fmt"
)

// ErrInvalidModel is returned when the problem cannot be modelled at all.
// An infeasible but well-formed problem is not an error.
var ErrInvalidModel = errors.New("invalid routing model")

// TransitCallback returns the transit between two solver indices.
type TransitCallback func(fromIndex, toIndex int) int

// UnaryTransitCallback returns a transit that depends only on the index it leaves.
type UnaryTransitCallback func(fromIndex int) int

// Dimension is a cumulative resource tracked along every route.
// The cumul at a route's start is 0 when FixStartCumulToZero is set; each arc adds
// its transit plus up to Slack, and every cumul must stay within [0, capacity].
type Dimension struct {
	name                string
	transit             int
	slack               int
	capacities          []int
	fixStartCumulToZero bool
}

func (d *Dimension) Name() string { return d.name }

func (d *Dimension) Capacity(vehicle int) int { return d.capacities[vehicle] }

func (d *Dimension) FixStartCumulToZero() bool { return d.fixStartCumulToZero }

// Model is a routing problem instance. It is built once per planning call and
// is read-only while a search runs.
type Model struct {
	manager   *IndexManager
	callbacks []TransitCallback
	arcCost   []int
	dims      []*Dimension
	dimByName map[string]*Dimension
}

func NewModel(manager *IndexManager) *Model {
	arcCost := make([]int, manager.NumVehicles())
	for v := range arcCost {
		arcCost[v] = -1
	}
	return &Model{
		manager:   manager,
		arcCost:   arcCost,
		dimByName: make(map[string]*Dimension),
	}
}

func (m *Model) Manager() *IndexManager { return m.manager }

// RegisterTransitCallback stores cb and returns its handle.
func (m *Model) RegisterTransitCallback(cb TransitCallback) int {
	m.callbacks = append(m.callbacks, cb)
	return len(m.callbacks) - 1
}

func (m *Model) RegisterUnaryTransitCallback(cb UnaryTransitCallback) int {
	return m.RegisterTransitCallback(func(from, _ int) int { return cb(from) })
}

func (m *Model) SetArcCostEvaluatorOfAllVehicles(callback int) error {
	if err := m.checkCallback(callback); err != nil {
		return fmt.Errorf("set arc cost evaluator: %w", err)
	}
	for v := range m.arcCost {
		m.arcCost[v] = callback
	}
	return nil
}

func (m *Model) SetArcCostEvaluatorOfVehicle(callback, vehicle int) error {
	if err := m.checkCallback(callback); err != nil {
		return fmt.Errorf("set arc cost evaluator: %w", err)
	}
	if vehicle < 0 || vehicle >= len(m.arcCost) {
		return fmt.Errorf("set arc cost evaluator: %w: vehicle %d out of range", ErrInvalidModel, vehicle)
	}
	m.arcCost[vehicle] = callback
	return nil
}

// AddDimension adds a dimension with the same capacity for every vehicle.
func (m *Model) AddDimension(callback, slack, capacity int, fixStartCumulToZero bool, name string) error {
	caps := make([]int, m.manager.NumVehicles())
	for v := range caps {
		caps[v] = capacity
	}
	return m.AddDimensionWithVehicleCapacity(callback, slack, caps, fixStartCumulToZero, name)
}

func (m *Model) AddDimensionWithVehicleCapacity(
	callback int,
	slack int,
	capacities []int,
	fixStartCumulToZero bool,
	name string,
) error {
	if err := m.checkCallback(callback); err != nil {
		return fmt.Errorf("add dimension %q: %w", name, err)
	}
	if name == "" {
		return fmt.Errorf("add dimension: %w: name must be non-empty", ErrInvalidModel)
	}
	if _, ok := m.dimByName[name]; ok {
		return fmt.Errorf("add dimension %q: %w: already exists", name, ErrInvalidModel)
	}
	if len(capacities) != m.manager.NumVehicles() {
		return fmt.Errorf(
			"add dimension %q: %w: %d capacities for %d vehicles",
			name, ErrInvalidModel, len(capacities), m.manager.NumVehicles(),
		)
	}
	if slack < 0 {
		return fmt.Errorf("add dimension %q: %w: negative slack", name, ErrInvalidModel)
	}
	for v, c := range capacities {
		if c < 0 {
			return fmt.Errorf("add dimension %q: %w: negative capacity for vehicle %d", name, ErrInvalidModel, v)
		}
	}

	d := &Dimension{
		name:                name,
		transit:             callback,
		slack:               slack,
		capacities:          append([]int(nil), capacities...),
		fixStartCumulToZero: fixStartCumulToZero,
	}
	m.dims = append(m.dims, d)
	m.dimByName[name] = d
	return nil
}

func (m *Model) Dimension(name string) (*Dimension, bool) {
	d, ok := m.dimByName[name]
	return d, ok
}

func (m *Model) Dimensions() []*Dimension { return m.dims }

// ArcCostForVehicle returns the objective contribution of moving from one index to another.
func (m *Model) ArcCostForVehicle(fromIndex, toIndex, vehicle int) int {
	cb := m.arcCost[vehicle]
	if cb < 0 {
		return 0
	}
	return m.callbacks[cb](fromIndex, toIndex)
}

// Transit evaluates a dimension's transit callback on an arc.
func (m *Model) Transit(d *Dimension, fromIndex, toIndex int) int {
	return m.callbacks[d.transit](fromIndex, toIndex)
}

// RouteCost sums the arc costs of start -> indices... -> end for a vehicle.
func (m *Model) RouteCost(vehicle int, indices []int) int {
	total := 0
	prev := m.manager.Start(vehicle)
	for _, idx := range indices {
		total += m.ArcCostForVehicle(prev, idx, vehicle)
		prev = idx
	}
	return total + m.ArcCostForVehicle(prev, m.manager.End(vehicle), vehicle)
}

// RouteFeasible reports whether visiting indices in order keeps every
// dimension's cumul within bounds, the return to the end index included.
// Slack can only raise cumuls, so the zero-slack path from a zero start decides.
func (m *Model) RouteFeasible(vehicle int, indices []int) bool {
	for _, d := range m.dims {
		if !m.dimensionFeasible(d, vehicle, indices) {
			return false
		}
	}
	return true
}

// Cumuls returns the dimension value at start, at each index and at the end.
func (m *Model) Cumuls(d *Dimension, vehicle int, indices []int) []int {
	out := make([]int, 0, len(indices)+2)
	cumul := 0
	prev := m.manager.Start(vehicle)
	out = append(out, cumul)
	for _, idx := range indices {
		cumul += m.Transit(d, prev, idx)
		out = append(out, cumul)
		prev = idx
	}
	cumul += m.Transit(d, prev, m.manager.End(vehicle))
	return append(out, cumul)
}

func (m *Model) dimensionFeasible(d *Dimension, vehicle int, indices []int) bool {
	capacity := d.capacities[vehicle]
	cumul := 0
	prev := m.manager.Start(vehicle)
	for _, idx := range indices {
		cumul += m.Transit(d, prev, idx)
		if cumul < 0 || cumul > capacity {
			return false
		}
		prev = idx
	}
	cumul += m.Transit(d, prev, m.manager.End(vehicle))
	return cumul >= 0 && cumul <= capacity
}

func (m *Model) checkCallback(callback int) error {
	if callback < 0 || callback >= len(m.callbacks) {
		return fmt.Errorf("%w: unknown transit callback %d", ErrInvalidModel, callback)
	}
	return nil
}
