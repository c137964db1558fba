package domain

import (
	"fmt"
	"time"
)

// Fleet defaults used when a request leaves a field unset.
const (
	DefaultDriverCount       = 3
	DefaultTripsPerDriver    = 2
	DefaultVehicleCapacity   = 33
	DefaultMaxMinutesPerTrip = 720
	DefaultTimeBudget        = 30 * time.Second
	DefaultAverageSpeedKmph  = 50.0
)

// FleetConfig describes the drivers available for one planning call.
// Every driver owns TripsPerDriver vehicle-trip slots, each an independent
// depot round trip bounded by VehicleCapacity and MaxMinutesPerTrip.
type FleetConfig struct {
	DriverCount       int
	TripsPerDriver    int
	VehicleCapacity   int
	MaxMinutesPerTrip int
	TimeBudget        time.Duration
	AverageSpeedKmph  float64
}

func DefaultFleetConfig() FleetConfig {
	return FleetConfig{
		DriverCount:       DefaultDriverCount,
		TripsPerDriver:    DefaultTripsPerDriver,
		VehicleCapacity:   DefaultVehicleCapacity,
		MaxMinutesPerTrip: DefaultMaxMinutesPerTrip,
		TimeBudget:        DefaultTimeBudget,
		AverageSpeedKmph:  DefaultAverageSpeedKmph,
	}
}

// WithDefaults returns a copy where every zero field takes its default.
func (f FleetConfig) WithDefaults() FleetConfig {
	d := DefaultFleetConfig()
	if f.DriverCount == 0 {
		f.DriverCount = d.DriverCount
	}
	if f.TripsPerDriver == 0 {
		f.TripsPerDriver = d.TripsPerDriver
	}
	if f.VehicleCapacity == 0 {
		f.VehicleCapacity = d.VehicleCapacity
	}
	if f.MaxMinutesPerTrip == 0 {
		f.MaxMinutesPerTrip = d.MaxMinutesPerTrip
	}
	if f.TimeBudget == 0 {
		f.TimeBudget = d.TimeBudget
	}
	if f.AverageSpeedKmph == 0 {
		f.AverageSpeedKmph = d.AverageSpeedKmph
	}
	return f
}

func (f FleetConfig) Validate() error {
	if f.DriverCount < 1 {
		return fmt.Errorf("validate fleet: %w: driver_count must be positive, got %d", ErrInvalidInput, f.DriverCount)
	}
	if f.TripsPerDriver < 1 {
		return fmt.Errorf("validate fleet: %w: trips_per_driver must be positive, got %d", ErrInvalidInput, f.TripsPerDriver)
	}
	if f.VehicleCapacity < 1 {
		return fmt.Errorf("validate fleet: %w: vehicle_capacity must be positive, got %d", ErrInvalidInput, f.VehicleCapacity)
	}
	if f.MaxMinutesPerTrip < 1 {
		return fmt.Errorf("validate fleet: %w: max_minutes_per_trip must be positive, got %d", ErrInvalidInput, f.MaxMinutesPerTrip)
	}
	if f.TimeBudget <= 0 {
		return fmt.Errorf("validate fleet: %w: time budget must be positive, got %s", ErrInvalidInput, f.TimeBudget)
	}
	if f.AverageSpeedKmph <= 0 {
		return fmt.Errorf("validate fleet: %w: average speed must be positive, got %v", ErrInvalidInput, f.AverageSpeedKmph)
	}
	return nil
}

// TotalVehicleSlots is the number of virtual vehicles given to the solver.
func (f FleetConfig) TotalVehicleSlots() int {
	return f.DriverCount * f.TripsPerDriver
}

// DriverOf returns the zero-based driver owning a zero-based vehicle slot.
func (f FleetConfig) DriverOf(slot int) int {
	return slot / f.TripsPerDriver
}
