package domain

// Represents one visited node of a trip and the load delivered so far.
type RouteNode struct {
	StopIndex int
	Load      int
}

// Represents a single depot round trip driven by one vehicle-trip slot.
// Path starts and ends at the depot; the final node carries the trip's total load.
// VehicleSlot is 1-based for display.
type Route struct {
	VehicleSlot int
	Minutes     int
	Path        []RouteNode
}

// Load returns the total load delivered on the trip.
func (r Route) Load() int {
	if len(r.Path) == 0 {
		return 0
	}
	return r.Path[len(r.Path)-1].Load
}

// Represents the work of one driver for the day.
// Driver is 1-based; Routes are ordered by vehicle slot.
// It is immutable planning data and contains no side effects.
type DriverItinerary struct {
	Driver       int
	TotalMinutes int
	Routes       []Route
}
