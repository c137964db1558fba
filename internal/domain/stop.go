package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DepotID is the external identifier of the single stop where every trip starts and ends.
const DepotID = "Depot"

// ErrInvalidInput marks requests rejected before any solving attempt.
var ErrInvalidInput = errors.New("invalid input")

// Represents a single delivery location.
// Demand is expressed in whole load units (e.g. pallets).
type Stop struct {
	ID          string
	Coordinates Coordinates
	Demand      int
}

// IsDepot reports whether the stop carries the depot identifier.
func (s Stop) IsDepot() bool { return s.ID == DepotID }

// StopSet is the ordered stop table handed to the planner.
// Stop positions are the node indices used by the duration matrix and the routing model.
type StopSet struct {
	Stops []Stop
}

func NewStopSet(stops []Stop) StopSet {
	return StopSet{Stops: stops}
}

func (s StopSet) Len() int { return len(s.Stops) }

// Validate checks the invariants required to build a routing model.
func (s StopSet) Validate() error {
	if len(s.Stops) == 0 {
		return fmt.Errorf("validate stops: %w: stop list is empty", ErrInvalidInput)
	}

	depots := 0
	seen := make(map[string]int, len(s.Stops))
	for i, st := range s.Stops {
		id := strings.TrimSpace(st.ID)
		if id == "" {
			return fmt.Errorf("validate stops: %w: stop at index %d has empty id", ErrInvalidInput, i)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("validate stops: %w: duplicate id %q at index %d and %d", ErrInvalidInput, id, prev, i)
		}
		seen[id] = i

		if !st.Coordinates.Valid() {
			return fmt.Errorf(
				"validate stops: %w: stop %q has malformed coordinates lat=%v lon=%v",
				ErrInvalidInput, id, st.Coordinates.Lat, st.Coordinates.Lon,
			)
		}
		if st.Demand < 0 {
			return fmt.Errorf("validate stops: %w: stop %q has negative demand %d", ErrInvalidInput, id, st.Demand)
		}

		if st.IsDepot() {
			depots++
			if st.Demand != 0 {
				return fmt.Errorf("validate stops: %w: depot demand must be 0, got %d", ErrInvalidInput, st.Demand)
			}
		}
	}

	if depots == 0 {
		return fmt.Errorf("validate stops: %w: no stop with id %q", ErrInvalidInput, DepotID)
	}
	if depots > 1 {
		return fmt.Errorf("validate stops: %w: %d stops with id %q, want exactly one", ErrInvalidInput, depots, DepotID)
	}

	return nil
}

// DepotIndex returns the position of the depot row, or -1 when absent.
func (s StopSet) DepotIndex() int {
	for i, st := range s.Stops {
		if st.IsDepot() {
			return i
		}
	}
	return -1
}

// Demands returns the demand vector aligned with stop order.
func (s StopSet) Demands() []int {
	out := make([]int, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Demand
	}
	return out
}

func (s StopSet) Coordinates() []Coordinates {
	out := make([]Coordinates, len(s.Stops))
	for i, st := range s.Stops {
		out[i] = st.Coordinates
	}
	return out
}

func (s StopSet) TotalDemand() int {
	total := 0
	for _, st := range s.Stops {
		total += st.Demand
	}
	return total
}

// MaxDemand returns the largest single-stop demand.
func (s StopSet) MaxDemand() int {
	m := 0
	for _, st := range s.Stops {
		if st.Demand > m {
			m = st.Demand
		}
	}
	return m
}
