package main

import (
	"delivery-tour-service/internal/domain"
	"fmt"
	"io"
	"strings"
)

// render prints each working driver with its trips and the visited stop ids.
func render(w io.Writer, plan *domain.Plan) error {
	switch plan.Status {
	case domain.PlanNoWorkRequired:
		_, err := fmt.Fprintln(w, "No deliveries to plan.")
		return err
	case domain.PlanInfeasible:
		_, err := fmt.Fprintln(w, "No feasible tours for this fleet.")
		return err
	}

	var b strings.Builder
	for _, it := range plan.Itineraries {
		fmt.Fprintf(&b, "Driver %d – total %d min\n", it.Driver, it.TotalMinutes)
		for _, r := range it.Routes {
			fmt.Fprintf(&b, "  Trip %d – %d min, %d units\n", r.VehicleSlot, r.Minutes, r.Load())
			fmt.Fprintf(&b, "    %s\n", strings.Join(plan.PathIDs(r), " -> "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
