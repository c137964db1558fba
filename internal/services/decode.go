package services

import (
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/routing"
)

// SlotRoute is a decoded trip together with the zero-based vehicle slot that drove it.
type SlotRoute struct {
	Slot  int
	Route domain.Route
}

// DecodeAssignment walks the successor links of every vehicle slot and rebuilds
// its trip. Slots whose start leads straight to the end are skipped.
//
// Each path entry carries the load delivered up to and including that node;
// the closing depot entry repeats the trip total. Minutes are the arc costs of
// the slot's own vehicle along the walked arcs.
func DecodeAssignment(model *routing.Model, demands []int, asg *routing.Assignment) []SlotRoute {
	mgr := model.Manager()
	out := make([]SlotRoute, 0, mgr.NumVehicles())

	for v := 0; v < mgr.NumVehicles(); v++ {
		index := mgr.Start(v)
		if mgr.IsEnd(asg.Next(index)) {
			continue
		}

		var (
			path    []domain.RouteNode
			load    int
			minutes int
		)
		for !mgr.IsEnd(index) {
			node := mgr.IndexToNode(index)
			load += demands[node]
			path = append(path, domain.RouteNode{StopIndex: node, Load: load})

			prev := index
			index = asg.Next(index)
			minutes += model.ArcCostForVehicle(prev, index, v)
		}
		path = append(path, domain.RouteNode{StopIndex: mgr.IndexToNode(index), Load: load})

		out = append(out, SlotRoute{
			Slot: v,
			Route: domain.Route{
				VehicleSlot: v + 1,
				Minutes:     minutes,
				Path:        path,
			},
		})
	}

	return out
}
