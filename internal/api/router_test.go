package api

import (
	"context"
	"delivery-tour-service/internal/adapters/distance"
	"delivery-tour-service/internal/api/dto"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"delivery-tour-service/internal/routing/search"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRepo struct {
	stops []domain.Stop
	err   error
}

func (r stubRepo) ListStops(context.Context) ([]domain.Stop, error) { return r.stops, r.err }

type recordingPublisher struct{ n int }

func (p *recordingPublisher) PublishPlan(context.Context, *domain.Plan) error {
	p.n++
	return nil
}

var seededStops = []domain.Stop{
	{ID: domain.DepotID, Coordinates: domain.Coordinates{Lat: 48.8566, Lon: 2.3522}},
	{ID: "A", Coordinates: domain.Coordinates{Lat: 48.8700, Lon: 2.3000}, Demand: 5},
	{ID: "B", Coordinates: domain.Coordinates{Lat: 48.8400, Lon: 2.4000}, Demand: 5},
}

func testRouter(repo stubRepo, pub *recordingPublisher) http.Handler {
	params := search.DefaultParameters()
	params.MaxStallRounds = 20

	fleet := domain.DefaultFleetConfig()
	fleet.TimeBudget = 2 * time.Second

	deps := Deps{
		Repo:   repo,
		Solver: search.NewEngine(params),
		Fleet:  fleet,
	}
	if pub != nil {
		deps.Publisher = pub
	}
	return NewRouter(deps)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, testRouter(stubRepo{}, nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestHealthDegraded(t *testing.T) {
	h := NewRouter(Deps{
		Solver:      search.NewEngine(search.DefaultParameters()),
		HealthCheck: func(context.Context) error { return errors.New("db unreachable") },
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/stops", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected /stops to be unrouted without a repository, got %d", rec.Code)
	}
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	rec := do(t, testRouter(stubRepo{}, nil), http.MethodPost, "/plans", "nope")

	var res struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error == "" || res.RequestID != rec.Header().Get(requestIDHeader) {
		t.Fatalf("unexpected error body %+v", res)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := testRouter(stubRepo{}, nil)
	id := "0b7f3f2e-93a5-4c1e-9f58-3f9e2d7c1a11"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != id {
		t.Fatalf("request id = %q, want %q", got, id)
	}
}

func TestPlanWithInlineStops(t *testing.T) {
	pub := &recordingPublisher{}
	body := `{
		"stops": [
			{"id": "Depot", "lat": 48.8566, "lon": 2.3522, "demand": 0},
			{"id": "A", "lat": 48.87, "lon": 2.30, "demand": 5},
			{"id": "B", "lat": 48.84, "lon": 2.40, "demand": 5},
			{"id": "C", "lat": 48.90, "lon": 2.35, "demand": 5}
		],
		"driver_count": 1,
		"trips_per_driver": 1,
		"time_budget_seconds": 1
	}`

	rec := do(t, testRouter(stubRepo{}, pub), http.MethodPost, "/plans", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != string(domain.PlanSolved) || len(res.Drivers) != 1 {
		t.Fatalf("unexpected plan %+v", res)
	}

	trip := res.Drivers[0].Trips[0]
	if trip.Load != 15 || trip.Path[0] != "Depot" || trip.Path[len(trip.Path)-1] != "Depot" || len(trip.Path) != 5 {
		t.Fatalf("unexpected trip %+v", trip)
	}
	if pub.n != 1 {
		t.Fatalf("expected plan to be published once, got %d", pub.n)
	}
}

func providerRouter(t *testing.T, provider ports.DurationMatrixProvider) http.Handler {
	t.Helper()
	params := search.DefaultParameters()
	params.MaxStallRounds = 20

	fleet := domain.DefaultFleetConfig()
	fleet.TimeBudget = 2 * time.Second

	return NewRouter(Deps{Provider: provider, Solver: search.NewEngine(params), Fleet: fleet})
}

func planMinutes(t *testing.T, h http.Handler, speed float64) int {
	t.Helper()
	body := fmt.Sprintf(`{
		"stops": [
			{"id": "Depot", "lat": 48.8566, "lon": 2.3522},
			{"id": "A", "lat": 48.87, "lon": 2.30, "demand": 5},
			{"id": "B", "lat": 48.84, "lon": 2.40, "demand": 5}
		],
		"driver_count": 1,
		"trips_per_driver": 1,
		"average_speed_kmph": %g
	}`, speed)

	rec := do(t, h, http.MethodPost, "/plans", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("speed %g: status = %d body=%s", speed, rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != string(domain.PlanSolved) {
		t.Fatalf("speed %g: unexpected plan %+v", speed, res)
	}
	return res.TotalMinutes
}

func TestPlanHonoursRequestSpeed(t *testing.T) {
	provider, err := distance.NewHaversineProvider(50)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	h := providerRouter(t, provider)

	fast := planMinutes(t, h, 50)
	slow := planMinutes(t, h, 25)

	if fast <= 0 {
		t.Fatalf("expected positive minutes at 50 km/h, got %d", fast)
	}
	// Two stops on one trip leave a single tour up to direction, so halving
	// the speed at least doubles the truncated minutes.
	if slow < 2*fast {
		t.Fatalf("minutes at 25 km/h = %d, want at least %d", slow, 2*fast)
	}
}

func TestPlanRejectsSpeedForFixedMatrixSource(t *testing.T) {
	provider := distance.NewMockMatrixProvider(domain.DurationMatrix{
		{0, 5, 5},
		{5, 0, 5},
		{5, 5, 0},
	})
	h := providerRouter(t, provider)

	rec := do(t, h, http.MethodPost, "/plans", `{
		"stops": [
			{"id": "Depot", "lat": 48.8566, "lon": 2.3522},
			{"id": "A", "lat": 48.87, "lon": 2.30, "demand": 5},
			{"id": "B", "lat": 48.84, "lon": 2.40, "demand": 5}
		],
		"average_speed_kmph": 25
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider called %d times for a rejected request", provider.Calls())
	}
}

func TestPlanFromRepository(t *testing.T) {
	rec := do(t, testRouter(stubRepo{stops: seededStops}, nil), http.MethodPost, "/plans", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	visited := 0
	for _, d := range res.Drivers {
		for _, tr := range d.Trips {
			visited += len(tr.Path) - 2
		}
	}
	if visited != 2 {
		t.Fatalf("expected both stops visited, got %d", visited)
	}
}

func TestPlanRepositoryFailure(t *testing.T) {
	rec := do(t, testRouter(stubRepo{err: errors.New("db down")}, nil), http.MethodPost, "/plans", `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPlanNoWorkRequired(t *testing.T) {
	body := `{"stops": [
		{"id": "Depot", "lat": 1, "lon": 1},
		{"id": "A", "lat": 1.1, "lon": 1.1, "demand": 0}
	]}`

	rec := do(t, testRouter(stubRepo{}, nil), http.MethodPost, "/plans", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res dto.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != string(domain.PlanNoWorkRequired) || res.Drivers == nil || len(res.Drivers) != 0 {
		t.Fatalf("unexpected plan %+v", res)
	}
}

func TestPlanRejectsBadRequests(t *testing.T) {
	cases := map[string]string{
		"unknown field":  `{"hub": "x"}`,
		"two objects":    `{} {}`,
		"not json":       `nope`,
		"no depot":       `{"stops": [{"id": "A", "lat": 1, "lon": 1, "demand": 1}]}`,
		"bad coordinate": `{"stops": [{"id": "Depot", "lat": 91, "lon": 1}]}`,
		"driver bound":   `{"driver_count": 51}`,
		"negative trips": `{"trips_per_driver": -1}`,
		"budget bound":   `{"time_budget_seconds": 121}`,
		"old budget key": `{"time_limit_seconds": 5}`,
		"negative speed": `{"average_speed_kmph": -5}`,
	}

	h := testRouter(stubRepo{stops: seededStops}, nil)
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/plans", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPlanMethodNotAllowed(t *testing.T) {
	rec := do(t, testRouter(stubRepo{}, nil), http.MethodGet, "/plans", "")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("status = %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestListStops(t *testing.T) {
	rec := do(t, testRouter(stubRepo{stops: seededStops}, nil), http.MethodGet, "/stops", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res dto.ListStopsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Stops) != 3 || res.Stops[1].ID != "A" || res.Stops[1].Demand != 5 {
		t.Fatalf("unexpected stops %+v", res.Stops)
	}
}
