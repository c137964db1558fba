package geo

import (
	"delivery-tour-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	paris = domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
	lyon  = domain.Coordinates{Lat: 45.7640, Lon: 4.8357}
	lille = domain.Coordinates{Lat: 50.6292, Lon: 3.0573}
)

func TestHaversineKm(t *testing.T) {
	d := HaversineKm(paris, lyon)
	assert.Greater(t, d, 380.0)
	assert.Less(t, d, 400.0)

	assert.Equal(t, 0.0, HaversineKm(paris, paris))
	assert.InDelta(t, HaversineKm(paris, lyon), HaversineKm(lyon, paris), 1e-9)
}

func TestDurationMinutesTruncates(t *testing.T) {
	// 49.9 km at 50 km/h is 59.88 minutes.
	assert.Equal(t, 59, DurationMinutes(49.9, 50))
	assert.Equal(t, 60, DurationMinutes(50, 50))
	assert.Equal(t, 0, DurationMinutes(0.8, 50))
	assert.Equal(t, 30, DurationMinutes(50, 100))
}

func TestDurationMatrix(t *testing.T) {
	points := []domain.Coordinates{paris, lyon, lille}
	m := DurationMatrix(points, 50)

	require.Len(t, m, 3)
	require.NoError(t, m.Validate(3))

	for i := range m {
		assert.Equal(t, 0, m[i][i])
		for j := range m[i] {
			assert.GreaterOrEqual(t, m[i][j], 0)
			assert.Equal(t, m[i][j], m[j][i], "constant speed model must be symmetric")
		}
	}

	want := DurationMinutes(HaversineKm(paris, lyon), 50)
	assert.Equal(t, want, m[0][1])
}

func TestDurationMatrixEmpty(t *testing.T) {
	assert.Empty(t, DurationMatrix(nil, 50))
}
