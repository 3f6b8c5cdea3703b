package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

var (
	newYork    = entities.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	losAngeles = entities.Coordinate{Latitude: 34.0522, Longitude: -118.2437}
	lagos      = entities.Coordinate{Latitude: 6.5244, Longitude: 3.3792}
)

func TestDistanceKm_KnownFixture(t *testing.T) {
	d, err := DistanceKm(newYork, losAngeles)
	require.NoError(t, err)
	assert.InDelta(t, 3936, d, 10)
}

func TestDistanceKm_Symmetry(t *testing.T) {
	ab, err := DistanceKm(newYork, lagos)
	require.NoError(t, err)
	ba, err := DistanceKm(lagos, newYork)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestDistanceKm_ZeroForEqualCoordinates(t *testing.T) {
	d, err := DistanceKm(lagos, lagos)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestDistanceKm_MonotonicWithSeparation(t *testing.T) {
	near := entities.Coordinate{Latitude: 40.7306, Longitude: -73.9866}
	dNear, err := DistanceKm(newYork, near)
	require.NoError(t, err)
	dFar, err := DistanceKm(newYork, losAngeles)
	require.NoError(t, err)
	assert.Less(t, dNear, dFar)
}

func TestDistanceKm_InvalidCoordinate(t *testing.T) {
	cases := []struct {
		name string
		a, b entities.Coordinate
	}{
		{"latitude too high", entities.Coordinate{Latitude: 90.1}, lagos},
		{"latitude too low", entities.Coordinate{Latitude: -91}, lagos},
		{"longitude too high", lagos, entities.Coordinate{Longitude: 180.5}},
		{"longitude too low", lagos, entities.Coordinate{Longitude: -181}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DistanceKm(tc.a, tc.b)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidCoordinate))
		})
	}
}
