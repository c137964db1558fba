package api

import (
	"context"
	"delivery-tour-service/internal/api/handlers"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"delivery-tour-service/internal/routing"
	"net/http"
)

// Deps are the ports the HTTP layer needs. Repo, Provider and Publisher may be nil.
type Deps struct {
	Repo      ports.StopRepository
	Provider  ports.DurationMatrixProvider
	Solver    routing.Solver
	Publisher ports.PlanPublisher
	Fleet     domain.FleetConfig

	// HealthCheck backs GET /health when set, typically a database ping.
	HealthCheck func(ctx context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Repo:      deps.Repo,
		Provider:  deps.Provider,
		Solver:    deps.Solver,
		Publisher: deps.Publisher,
		Defaults:  deps.Fleet,
	}

	healthHandler := &handlers.HealthHandler{Check: deps.HealthCheck}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	if deps.Repo != nil {
		stopHandler := &handlers.StopHandler{Repo: deps.Repo}
		mux.HandleFunc("/stops", stopHandler.List)
	}

	return requestIDMiddleware(loggingMiddleware(mux))
}
