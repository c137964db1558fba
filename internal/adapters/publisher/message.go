package publisher

import (
	"delivery-tour-service/internal/domain"
	"encoding/json"
	"fmt"
	"time"
)

const planEventType = "plan.completed"

type planEvent struct {
	Type         string        `json:"type"`
	PlanID       string        `json:"plan_id"`
	Status       string        `json:"status"`
	TotalMinutes int           `json:"total_minutes"`
	CreatedAt    time.Time     `json:"created_at"`
	Drivers      []driverEvent `json:"drivers"`
}

type driverEvent struct {
	Driver       int         `json:"driver"`
	TotalMinutes int         `json:"total_minutes"`
	Trips        []tripEvent `json:"trips"`
}

type tripEvent struct {
	VehicleSlot int      `json:"vehicle_slot"`
	Minutes     int      `json:"minutes"`
	Load        int      `json:"load"`
	Path        []string `json:"path"`
}

// encodePlan renders the plan as a JSON event with stop ids in place of indices.
func encodePlan(plan *domain.Plan) ([]byte, error) {
	ev := planEvent{
		Type:         planEventType,
		PlanID:       plan.ID.String(),
		Status:       string(plan.Status),
		TotalMinutes: plan.TotalMinutes,
		CreatedAt:    plan.CreatedAt,
		Drivers:      make([]driverEvent, 0, len(plan.Itineraries)),
	}
	for _, it := range plan.Itineraries {
		d := driverEvent{
			Driver:       it.Driver,
			TotalMinutes: it.TotalMinutes,
			Trips:        make([]tripEvent, 0, len(it.Routes)),
		}
		for _, r := range it.Routes {
			d.Trips = append(d.Trips, tripEvent{
				VehicleSlot: r.VehicleSlot,
				Minutes:     r.Minutes,
				Load:        r.Load(),
				Path:        plan.PathIDs(r),
			})
		}
		ev.Drivers = append(ev.Drivers, d)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal plan event: %w", err)
	}
	return body, nil
}
