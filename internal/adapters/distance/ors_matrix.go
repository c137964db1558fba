package distance

import (
	"bytes"
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix retrieves distance and duration between every pair of points
// with one request; omitting sources and destinations asks ORS for all of them.
func (o *ORSMatrixProvider) fetchMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) ([][]ports.DistanceResult, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(points))
	for _, p := range points {
		locations = append(locations, p.CoordsToList())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	n := len(points)
	if len(mr.Distances) != n || len(mr.Durations) != n {
		return nil, fmt.Errorf(
			"expected %d rows; got distances=%d durations=%d",
			n, len(mr.Distances), len(mr.Durations),
		)
	}

	out := make([][]ports.DistanceResult, n)
	for i := 0; i < n; i++ {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return nil, fmt.Errorf(
				"row %d lengths do not match points: distances=%d durations=%d points=%d",
				i, len(mr.Distances[i]), len(mr.Durations[i]), n,
			)
		}

		out[i] = make([]ports.DistanceResult, n)
		for j := 0; j < n; j++ {
			metersPtr := mr.Distances[i][j]
			secondsPtr := mr.Durations[i][j]
			if metersPtr == nil || secondsPtr == nil {
				return nil, fmt.Errorf("matrix returned no route from point %d to point %d", i, j)
			}

			// ORS returns float metrics; round to nearest integer for domain consistency.
			out[i][j] = ports.DistanceResult{
				DistanceMeters:  int(math.Round(*metersPtr)),
				DurationSeconds: int(math.Round(*secondsPtr)),
			}
		}
	}

	return out, nil
}
