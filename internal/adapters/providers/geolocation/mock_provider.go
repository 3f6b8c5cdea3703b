package geolocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

// MockGeolocationProvider implements a mock geolocation provider for
// development and testing. It resolves a handful of well-known cities and
// returns no candidates for anything else.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

var mockCities = map[string]entities.Coordinate{
	"New York":      {Latitude: 40.7128, Longitude: -74.0060},
	"Los Angeles":   {Latitude: 34.0522, Longitude: -118.2437},
	"Chicago":       {Latitude: 41.8781, Longitude: -87.6298},
	"San Francisco": {Latitude: 37.7749, Longitude: -122.4194},
	"Lagos":         {Latitude: 6.5244, Longitude: 3.3792},
	"Abuja":         {Latitude: 9.0765, Longitude: 7.3986},
	"London":        {Latitude: 51.5074, Longitude: -0.1278},
}

// Geocode matches the query against the known city table.
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) ([]*entities.SearchLocation, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	var locations []*entities.SearchLocation
	for city, coord := range mockCities {
		if strings.Contains(strings.ToLower(trimmed), strings.ToLower(city)) {
			locations = append(locations, &entities.SearchLocation{
				Coordinate: coord,
				Label:      city,
			})
		}
	}

	return locations, nil
}

// ReverseGeocode labels coordinates with the nearest known city, falling back
// to the raw coordinates.
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, coord entities.Coordinate) (string, error) {
	if !coord.Valid() {
		return "", fmt.Errorf("coordinate out of range: %f, %f", coord.Latitude, coord.Longitude)
	}

	for city, known := range mockCities {
		if approxEqual(known.Latitude, coord.Latitude) && approxEqual(known.Longitude, coord.Longitude) {
			return city, nil
		}
	}

	return fmt.Sprintf("%.4f, %.4f", coord.Latitude, coord.Longitude), nil
}

func approxEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.05
}
