package search

import (
	"context"
	"delivery-tour-service/internal/routing"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

var _ routing.Solver = (*Engine)(nil)

// Engine is the in-house routing.Solver. It holds no state between calls, so
// one Engine may serve concurrent Solve calls on independent models.
type Engine struct {
	params Parameters
}

func NewEngine(params Parameters) *Engine {
	return &Engine{params: params.withDefaults()}
}

func (e *Engine) Parameters() Parameters { return e.params }

type workerResult struct {
	routes [][]int
	cost   int
	rounds int
}

// Solve searches for the cheapest assignment it can find within budget.
// A budget of zero uses the engine's TimeLimit. It returns (nil, nil) when no
// feasible assignment was found.
func (e *Engine) Solve(ctx context.Context, model *routing.Model, budget time.Duration) (*routing.Assignment, error) {
	if model == nil {
		return nil, fmt.Errorf("search: %w: model is nil", routing.ErrInvalidModel)
	}
	if budget <= 0 {
		budget = e.params.TimeLimit
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	results := make([]*workerResult, e.params.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.params.Workers; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("search: worker %d panicked: %v", i, r)
				}
			}()
			w := newWorker(model, e.params, workerRNG(e.params.Seed, i))
			results[i] = w.run(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("search: %v", err)
	}

	var best *workerResult
	rounds := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		rounds += r.rounds
		if best == nil || r.cost < best.cost {
			best = r
		}
	}

	if best == nil {
		log.Printf("search: no solution workers=%d dur=%dms", e.params.Workers, time.Since(start).Milliseconds())
		return nil, nil
	}

	asg, err := routing.NewAssignment(model, best.routes)
	if err != nil {
		return nil, fmt.Errorf("search: decode best routes: %w", err)
	}

	log.Printf(
		"search: solved cost=%d workers=%d rounds=%d dur=%dms",
		best.cost, e.params.Workers, rounds, time.Since(start).Milliseconds(),
	)
	return asg, nil
}
