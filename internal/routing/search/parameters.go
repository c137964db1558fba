// Package search finds low-cost feasible assignments for a routing.Model.
//
// The engine builds a first solution with a path-cheapest-arc construction and
// then improves it with guided local search until the time budget expires or
// the search stops finding better solutions.
package search

import "time"

// FirstSolutionStrategy selects the construction heuristic.
type FirstSolutionStrategy int

const (
	// PathCheapestArc extends each route from its start along the cheapest feasible arc.
	PathCheapestArc FirstSolutionStrategy = iota
)

// Metaheuristic selects the improvement phase.
type Metaheuristic int

const (
	// GuidedLocalSearch penalizes costly arcs of each local optimum to move away from it.
	GuidedLocalSearch Metaheuristic = iota
	// NoMetaheuristic returns the construction result unchanged.
	NoMetaheuristic
)

const (
	DefaultTimeLimit         = 30 * time.Second
	DefaultLambdaCoefficient = 0.1
	DefaultMaxStallRounds    = 1000
)

// Parameters tune a search run.
type Parameters struct {
	FirstSolution FirstSolutionStrategy
	Metaheuristic Metaheuristic
	TimeLimit     time.Duration

	// LambdaCoefficient scales arc penalties relative to the mean arc cost
	// of the first local optimum.
	LambdaCoefficient float64

	// MaxStallRounds stops the search after this many penalization rounds
	// without a new best solution. Zero or negative disables the limit.
	MaxStallRounds int

	// Workers run independent searches with different neighbourhood orders.
	Workers int
	Seed    int64
}

func DefaultParameters() Parameters {
	return Parameters{
		FirstSolution:     PathCheapestArc,
		Metaheuristic:     GuidedLocalSearch,
		TimeLimit:         DefaultTimeLimit,
		LambdaCoefficient: DefaultLambdaCoefficient,
		MaxStallRounds:    DefaultMaxStallRounds,
		Workers:           1,
	}
}

func (p Parameters) withDefaults() Parameters {
	if p.TimeLimit <= 0 {
		p.TimeLimit = DefaultTimeLimit
	}
	if p.LambdaCoefficient <= 0 {
		p.LambdaCoefficient = DefaultLambdaCoefficient
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	return p
}
