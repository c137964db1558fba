package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanStatus distinguishes the outcomes of a planning call that all
// produce the same empty itinerary list.
type PlanStatus string

const (
	PlanSolved         PlanStatus = "solved"
	PlanInfeasible     PlanStatus = "infeasible"
	PlanNoWorkRequired PlanStatus = "no_work_required"
)

// Plan is the result of one planning call.
type Plan struct {
	ID           uuid.UUID
	Status       PlanStatus
	Itineraries  []DriverItinerary
	TotalMinutes int
	Stops        StopSet
	Fleet        FleetConfig
	CreatedAt    time.Time
}

func NewPlan(status PlanStatus, stops StopSet, fleet FleetConfig, itineraries []DriverItinerary) *Plan {
	if itineraries == nil {
		itineraries = []DriverItinerary{}
	}
	total := 0
	for _, it := range itineraries {
		total += it.TotalMinutes
	}
	return &Plan{
		ID:           uuid.New(),
		Status:       status,
		Itineraries:  itineraries,
		TotalMinutes: total,
		Stops:        stops,
		Fleet:        fleet,
		CreatedAt:    time.Now().UTC(),
	}
}

// StopID maps a path index back to the stop's external identifier.
func (p *Plan) StopID(index int) string {
	if index < 0 || index >= len(p.Stops.Stops) {
		return ""
	}
	return p.Stops.Stops[index].ID
}

// PathIDs returns the external identifiers visited by a route, in order.
func (p *Plan) PathIDs(r Route) []string {
	out := make([]string, 0, len(r.Path))
	for _, n := range r.Path {
		out = append(out, p.StopID(n.StopIndex))
	}
	return out
}
