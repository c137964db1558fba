package dto

import "time"

// PlanRequest leaves every fleet field optional; zero values take the server defaults.
// When Stops is empty the stored stop table is planned.
type PlanRequest struct {
	Stops             []StopRequest `json:"stops"`
	Matrix            [][]int       `json:"matrix"`
	DriverCount       int           `json:"driver_count"`
	TripsPerDriver    int           `json:"trips_per_driver"`
	VehicleCapacity   int           `json:"vehicle_capacity"`
	MaxMinutesPerTrip int           `json:"max_minutes_per_trip"`
	TimeBudgetSeconds int           `json:"time_budget_seconds"`
	AverageSpeedKmph  float64       `json:"average_speed_kmph"`
}

type PlanStopResponse struct {
	ID   string `json:"id"`
	Load int    `json:"load"`
}

type TripResponse struct {
	VehicleSlot int                `json:"vehicle_slot"`
	Minutes     int                `json:"minutes"`
	Load        int                `json:"load"`
	Path        []string           `json:"path"`
	Stops       []PlanStopResponse `json:"stops"`
}

type DriverResponse struct {
	Driver       int            `json:"driver"`
	TotalMinutes int            `json:"total_minutes"`
	Trips        []TripResponse `json:"trips"`
}

type PlanResponse struct {
	PlanID       string           `json:"plan_id"`
	Status       string           `json:"status"`
	TotalMinutes int              `json:"total_minutes"`
	CreatedAt    time.Time        `json:"created_at"`
	Drivers      []DriverResponse `json:"drivers"`
}
