package services

import "delivery-tour-service/internal/domain"

// AggregateByDriver groups decoded trips under the driver owning each slot
// (slot / tripsPerDriver). Drivers appear in slot order with 1-based ids, and
// drivers without any trip are left out.
func AggregateByDriver(routes []SlotRoute, tripsPerDriver int) []domain.DriverItinerary {
	out := []domain.DriverItinerary{}
	if tripsPerDriver < 1 {
		return out
	}

	pos := make(map[int]int)
	for _, sr := range routes {
		driver := sr.Slot / tripsPerDriver
		i, ok := pos[driver]
		if !ok {
			i = len(out)
			pos[driver] = i
			out = append(out, domain.DriverItinerary{Driver: driver + 1})
		}
		out[i].Routes = append(out[i].Routes, sr.Route)
		out[i].TotalMinutes += sr.Route.Minutes
	}

	return out
}
