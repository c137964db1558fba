package search

import "math"

// construct builds a first solution with the path-cheapest-arc strategy.
// Each vehicle in turn is extended from its start along the cheapest arc to an
// unvisited customer that keeps the route feasible. Customers left over when
// every vehicle is closed are placed by cheapest feasible insertion. It returns
// nil when some customer fits nowhere.
func (w *worker) construct() [][]int {
	nv := w.mgr.NumVehicles()
	nc := w.mgr.NumCustomers()

	routes := make([][]int, nv)
	assigned := make([]bool, nc)
	remaining := nc

	for v := 0; v < nv && remaining > 0; v++ {
		cur := w.mgr.Start(v)
		for remaining > 0 {
			best, bestCost := -1, math.MaxInt
			for x := 0; x < nc; x++ {
				if assigned[x] {
					continue
				}
				c := w.model.ArcCostForVehicle(cur, x, v)
				if c >= bestCost {
					continue
				}
				n := len(routes[v])
				if !w.model.RouteFeasible(v, append(routes[v][:n:n], x)) {
					continue
				}
				best, bestCost = x, c
			}
			if best < 0 {
				break
			}
			routes[v] = append(routes[v], best)
			assigned[best] = true
			remaining--
			cur = best
		}
	}

	for remaining > 0 {
		bestX, bestV, bestPos, bestDelta := -1, -1, -1, math.MaxInt
		for x := 0; x < nc; x++ {
			if assigned[x] {
				continue
			}
			for v := 0; v < nv; v++ {
				r := routes[v]
				for pos := 0; pos <= len(r); pos++ {
					prev, next := w.at(v, r, pos-1), w.at(v, r, pos)
					delta := w.model.ArcCostForVehicle(prev, x, v) +
						w.model.ArcCostForVehicle(x, next, v) -
						w.model.ArcCostForVehicle(prev, next, v)
					if delta >= bestDelta {
						continue
					}
					if !w.model.RouteFeasible(v, insertAt(r, pos, x)) {
						continue
					}
					bestX, bestV, bestPos, bestDelta = x, v, pos, delta
				}
			}
		}
		if bestX < 0 {
			return nil
		}
		routes[bestV] = insertAt(routes[bestV], bestPos, bestX)
		assigned[bestX] = true
		remaining--
	}

	return routes
}

// insertAt returns a new slice with x placed before position pos.
func insertAt(r []int, pos, x int) []int {
	out := make([]int, 0, len(r)+1)
	out = append(out, r[:pos]...)
	out = append(out, x)
	return append(out, r[pos:]...)
}

// removeAt returns a new slice without the element at pos.
func removeAt(r []int, pos int) []int {
	out := make([]int, 0, len(r)-1)
	out = append(out, r[:pos]...)
	return append(out, r[pos+1:]...)
}
