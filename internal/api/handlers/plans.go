package handlers

import (
	"delivery-tour-service/internal/api/dto"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"delivery-tour-service/internal/routing"
	"delivery-tour-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Request bounds for POST /plans.
const (
	maxStops            = 500
	maxDrivers          = 50
	maxTripsPerDriver   = 10
	maxTimeBudgetSeconds = 120
	maxBodyBytes        = 1 << 20
)

type PlanHandler struct {
	Repo      ports.StopRepository
	Provider  ports.DurationMatrixProvider
	Solver    routing.Solver
	Publisher ports.PlanPublisher
	Defaults  domain.FleetConfig
}

// Plan validates the request, runs the tour planner and renders the plan with
// stop ids in place of indices.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if msg := checkBounds(req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	if msg := h.checkSpeed(req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	stops, err := h.stops(r, req)
	if err != nil {
		log.Printf("load stops failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	svcReq := services.PlanToursRequest{
		Stops:  stops,
		Fleet:  h.fleet(req),
		Matrix: req.Matrix,
	}

	plan, err := services.PlanAndPublish(r.Context(), svcReq, h.Provider, h.Solver, h.Publisher)
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("plan tours failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func checkBounds(req dto.PlanRequest) string {
	switch {
	case len(req.Stops) > maxStops:
		return fmt.Sprintf("at most %d stops are accepted", maxStops)
	case req.DriverCount < 0 || req.DriverCount > maxDrivers:
		return fmt.Sprintf("driver_count must be between 1 and %d", maxDrivers)
	case req.TripsPerDriver < 0 || req.TripsPerDriver > maxTripsPerDriver:
		return fmt.Sprintf("trips_per_driver must be between 1 and %d", maxTripsPerDriver)
	case req.TimeBudgetSeconds < 0 || req.TimeBudgetSeconds > maxTimeBudgetSeconds:
		return fmt.Sprintf("time_budget_seconds must be between 1 and %d", maxTimeBudgetSeconds)
	case req.AverageSpeedKmph < 0:
		return "average_speed_kmph must be positive"
	}
	return ""
}

// checkSpeed rejects a speed override the configured matrix source would ignore.
func (h *PlanHandler) checkSpeed(req dto.PlanRequest) string {
	if req.AverageSpeedKmph == 0 || req.Matrix != nil || h.Provider == nil {
		return ""
	}
	if _, ok := ports.AtSpeed(h.Provider, req.AverageSpeedKmph); !ok {
		return "average_speed_kmph is not supported by the configured matrix source"
	}
	return ""
}

func (h *PlanHandler) stops(r *http.Request, req dto.PlanRequest) (domain.StopSet, error) {
	if len(req.Stops) == 0 && h.Repo != nil {
		return services.LoadStops(r.Context(), h.Repo)
	}
	stops := make([]domain.Stop, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, domain.Stop{
			ID:          s.ID,
			Coordinates: domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
			Demand:      s.Demand,
		})
	}
	return domain.NewStopSet(stops), nil
}

// fleet overlays the request's non-zero fields on the server defaults.
func (h *PlanHandler) fleet(req dto.PlanRequest) domain.FleetConfig {
	f := h.Defaults
	if req.DriverCount != 0 {
		f.DriverCount = req.DriverCount
	}
	if req.TripsPerDriver != 0 {
		f.TripsPerDriver = req.TripsPerDriver
	}
	if req.VehicleCapacity != 0 {
		f.VehicleCapacity = req.VehicleCapacity
	}
	if req.MaxMinutesPerTrip != 0 {
		f.MaxMinutesPerTrip = req.MaxMinutesPerTrip
	}
	if req.TimeBudgetSeconds != 0 {
		f.TimeBudget = time.Duration(req.TimeBudgetSeconds) * time.Second
	}
	if req.AverageSpeedKmph != 0 {
		f.AverageSpeedKmph = req.AverageSpeedKmph
	}
	return f
}

func toPlanResponse(p *domain.Plan) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:       p.ID.String(),
		Status:       string(p.Status),
		TotalMinutes: p.TotalMinutes,
		CreatedAt:    p.CreatedAt,
		Drivers:      make([]dto.DriverResponse, 0, len(p.Itineraries)),
	}
	for _, it := range p.Itineraries {
		d := dto.DriverResponse{
			Driver:       it.Driver,
			TotalMinutes: it.TotalMinutes,
			Trips:        make([]dto.TripResponse, 0, len(it.Routes)),
		}
		for _, route := range it.Routes {
			stops := make([]dto.PlanStopResponse, 0, len(route.Path))
			for _, n := range route.Path {
				stops = append(stops, dto.PlanStopResponse{ID: p.StopID(n.StopIndex), Load: n.Load})
			}
			d.Trips = append(d.Trips, dto.TripResponse{
				VehicleSlot: route.VehicleSlot,
				Minutes:     route.Minutes,
				Load:        route.Load(),
				Path:        p.PathIDs(route),
				Stops:       stops,
			})
		}
		res.Drivers = append(res.Drivers, d)
	}
	return res
}
