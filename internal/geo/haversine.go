// Package geo turns stop coordinates into the travel-duration matrix consumed by the planner.
package geo

import (
	"delivery-tour-service/internal/domain"
	"math"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b domain.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DurationMinutes converts a distance into whole driving minutes at a constant speed.
// The value is truncated, never rounded: time-budget comparisons downstream depend on it.
func DurationMinutes(km, speedKmph float64) int {
	return int(km / speedKmph * 60)
}

// DurationMatrix evaluates every ordered pair of points, including the zero diagonal.
func DurationMatrix(points []domain.Coordinates, speedKmph float64) domain.DurationMatrix {
	n := len(points)
	m := make(domain.DurationMatrix, n)
	for i := 0; i < n; i++ {
		row := make([]int, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			row[j] = DurationMinutes(HaversineKm(points[i], points[j]), speedKmph)
		}
		m[i] = row
	}
	return m
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
