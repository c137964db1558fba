package main

import (
	"context"
	"delivery-tour-service/internal/adapters/distance"
	"delivery-tour-service/internal/adapters/repositories"
	"delivery-tour-service/internal/config"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/routing/search"
	"delivery-tour-service/internal/services"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// planner solves a stop file once and prints the tours, one driver per block.
//
//	planner stops.json
//
// Fleet and search settings come from the same environment as the server.
// SEARCH_DETERMINISTIC=1 skips the improvement phase for repeatable output.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <stops.json>\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	stops, err := repositories.ReadSeedFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	provider, err := distance.NewHaversineProvider(cfg.Fleet.AverageSpeedKmph)
	if err != nil {
		log.Fatal(err)
	}

	params := search.DefaultParameters()
	params.Workers = cfg.SearchWorkers
	params.Seed = cfg.SearchSeed
	params.MaxStallRounds = cfg.MaxStallRounds
	if config.Get("SEARCH_DETERMINISTIC", "") == "1" {
		params.Metaheuristic = search.NoMetaheuristic
	}

	plan, err := services.PlanTours(context.Background(), services.PlanToursRequest{
		Stops: domain.NewStopSet(stops),
		Fleet: cfg.Fleet,
	}, provider, search.NewEngine(params))
	if err != nil {
		log.Fatal(err)
	}

	if err := render(os.Stdout, plan); err != nil {
		log.Fatal(err)
	}
	if plan.Status == domain.PlanInfeasible {
		os.Exit(1)
	}
}
