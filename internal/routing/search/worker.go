package search

import (
	"context"
	"delivery-tour-service/internal/routing"
	"math/rand"
)

const (
	stopCheckEvery = 256
	improveEpsilon = 1e-9
)

// worker runs one construction plus guided local search. It is not safe for
// concurrent use; the engine gives every goroutine its own worker.
type worker struct {
	model  *routing.Model
	mgr    *routing.IndexManager
	params Parameters
	rng    *rand.Rand

	size      int
	penalties []int
	lambda    float64

	ctx     context.Context
	steps   int
	stopped bool
}

func newWorker(model *routing.Model, params Parameters, rng *rand.Rand) *worker {
	mgr := model.Manager()
	size := mgr.SizeWithEnds()
	return &worker{
		model:     model,
		mgr:       mgr,
		params:    params,
		rng:       rng,
		size:      size,
		penalties: make([]int, size*size),
	}
}

// run returns the best routes found, or nil when construction fails.
func (w *worker) run(ctx context.Context) *workerResult {
	w.ctx = ctx

	cur := w.construct()
	if cur == nil {
		return nil
	}
	if w.params.Metaheuristic == NoMetaheuristic {
		return &workerResult{routes: cur, cost: w.cost(cur)}
	}

	best, bestCost := cloneRoutes(cur), w.cost(cur)
	stall, rounds := 0, 0

	for !w.stopped {
		w.localSearch(cur)
		c := w.cost(cur)
		rounds++
		if c < bestCost {
			best, bestCost = cloneRoutes(cur), c
			stall = 0
		} else {
			stall++
		}
		if w.params.MaxStallRounds > 0 && stall >= w.params.MaxStallRounds {
			break
		}
		if w.lambda == 0 {
			arcs := w.arcCount(cur)
			if c == 0 || arcs == 0 {
				break
			}
			w.lambda = w.params.LambdaCoefficient * float64(c) / float64(arcs)
		}
		if !w.penalize(cur) {
			break
		}
	}

	return &workerResult{routes: best, cost: bestCost, rounds: rounds}
}

// tick reports whether the search should stop. The context is polled every
// stopCheckEvery calls.
func (w *worker) tick() bool {
	if w.stopped {
		return true
	}
	w.steps++
	if w.steps%stopCheckEvery == 0 && w.ctx.Err() != nil {
		w.stopped = true
	}
	return w.stopped
}

// at returns the index at pos in vehicle v's route, with -1 as the start and
// len(r) as the end.
func (w *worker) at(v int, r []int, pos int) int {
	switch {
	case pos < 0:
		return w.mgr.Start(v)
	case pos >= len(r):
		return w.mgr.End(v)
	default:
		return r[pos]
	}
}

func (w *worker) cost(routes [][]int) int {
	total := 0
	for v, r := range routes {
		total += w.model.RouteCost(v, r)
	}
	return total
}

func (w *worker) arcCount(routes [][]int) int {
	n := 0
	for _, r := range routes {
		if len(r) > 0 {
			n += len(r) + 1
		}
	}
	return n
}

func (w *worker) augArc(from, to, v int) float64 {
	c := float64(w.model.ArcCostForVehicle(from, to, v))
	if w.lambda == 0 {
		return c
	}
	return c + w.lambda*float64(w.penalties[from*w.size+to])
}

// augRoute is the penalized cost of a route; an empty route costs nothing.
func (w *worker) augRoute(v int, r []int) float64 {
	if len(r) == 0 {
		return 0
	}
	total := w.augArc(w.mgr.Start(v), r[0], v)
	for i := 1; i < len(r); i++ {
		total += w.augArc(r[i-1], r[i], v)
	}
	return total + w.augArc(r[len(r)-1], w.mgr.End(v), v)
}

// order is the vehicle scan order: natural for the primary worker, shuffled
// for the others.
func (w *worker) order(n int) []int {
	if w.rng == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return w.rng.Perm(n)
}

// localSearch applies first-improvement moves on the penalized cost until no
// move improves or the search is stopped. Every applied move keeps all routes
// feasible.
func (w *worker) localSearch(routes [][]int) {
	for !w.stopped {
		if w.relocate(routes) || w.exchange(routes) || w.twoOpt(routes) {
			continue
		}
		return
	}
}

// relocate moves one customer to another position, in the same route or another.
func (w *worker) relocate(routes [][]int) bool {
	vs := w.order(len(routes))
	for _, v1 := range vs {
		for i := 0; i < len(routes[v1]); i++ {
			x := routes[v1][i]
			src := removeAt(routes[v1], i)
			srcOld := w.augRoute(v1, routes[v1])
			srcNew := w.augRoute(v1, src)

			for _, v2 := range vs {
				if v1 == v2 {
					for pos := 0; pos <= len(src); pos++ {
						if w.tick() {
							return false
						}
						if pos == i {
							continue
						}
						cand := insertAt(src, pos, x)
						if w.augRoute(v1, cand)-srcOld >= -improveEpsilon {
							continue
						}
						if !w.model.RouteFeasible(v1, cand) {
							continue
						}
						routes[v1] = cand
						return true
					}
					continue
				}

				dstOld := w.augRoute(v2, routes[v2])
				for pos := 0; pos <= len(routes[v2]); pos++ {
					if w.tick() {
						return false
					}
					cand := insertAt(routes[v2], pos, x)
					delta := srcNew - srcOld + w.augRoute(v2, cand) - dstOld
					if delta >= -improveEpsilon {
						continue
					}
					if !w.model.RouteFeasible(v2, cand) || !w.model.RouteFeasible(v1, src) {
						continue
					}
					routes[v1], routes[v2] = src, cand
					return true
				}
			}
		}
	}
	return false
}

// exchange swaps two customers between different routes.
func (w *worker) exchange(routes [][]int) bool {
	vs := w.order(len(routes))
	for a, v1 := range vs {
		for _, v2 := range vs[a+1:] {
			old := w.augRoute(v1, routes[v1]) + w.augRoute(v2, routes[v2])
			for i := range routes[v1] {
				for j := range routes[v2] {
					if w.tick() {
						return false
					}
					r1 := cloneRoute(routes[v1])
					r2 := cloneRoute(routes[v2])
					r1[i], r2[j] = r2[j], r1[i]
					if w.augRoute(v1, r1)+w.augRoute(v2, r2)-old >= -improveEpsilon {
						continue
					}
					if !w.model.RouteFeasible(v1, r1) || !w.model.RouteFeasible(v2, r2) {
						continue
					}
					routes[v1], routes[v2] = r1, r2
					return true
				}
			}
		}
	}
	return false
}

// twoOpt reverses a segment inside one route.
func (w *worker) twoOpt(routes [][]int) bool {
	for _, v := range w.order(len(routes)) {
		r := routes[v]
		if len(r) < 2 {
			continue
		}
		old := w.augRoute(v, r)
		for i := 0; i < len(r)-1; i++ {
			for j := i + 1; j < len(r); j++ {
				if w.tick() {
					return false
				}
				cand := cloneRoute(r)
				reverse(cand[i : j+1])
				if w.augRoute(v, cand)-old >= -improveEpsilon {
					continue
				}
				if !w.model.RouteFeasible(v, cand) {
					continue
				}
				routes[v] = cand
				return true
			}
		}
	}
	return false
}

// penalize raises the penalty of the arcs with the highest utility
// cost/(1+penalty) in the current local optimum. It reports false when the
// solution has no arcs to penalize.
func (w *worker) penalize(routes [][]int) bool {
	type arc struct{ from, to int }

	var (
		maxUtil = -1.0
		top     []arc
	)
	for v, r := range routes {
		if len(r) == 0 {
			continue
		}
		prev := w.mgr.Start(v)
		for k := 0; k <= len(r); k++ {
			next := w.at(v, r, k)
			key := prev*w.size + next
			u := float64(w.model.ArcCostForVehicle(prev, next, v)) / float64(1+w.penalties[key])
			switch {
			case u > maxUtil+improveEpsilon:
				maxUtil = u
				top = append(top[:0], arc{prev, next})
			case u >= maxUtil-improveEpsilon:
				top = append(top, arc{prev, next})
			}
			prev = next
		}
	}
	if len(top) == 0 {
		return false
	}
	for _, a := range top {
		w.penalties[a.from*w.size+a.to]++
	}
	return true
}

func cloneRoute(r []int) []int {
	out := make([]int, len(r))
	copy(out, r)
	return out
}

func cloneRoutes(routes [][]int) [][]int {
	out := make([][]int, len(routes))
	for i, r := range routes {
		out[i] = cloneRoute(r)
	}
	return out
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
