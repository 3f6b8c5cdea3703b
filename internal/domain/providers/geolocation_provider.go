package providers

import (
	"context"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// GeolocationProvider defines the interface for address resolution services.
// The engine only ever consumes the chosen SearchLocation; raw provider
// responses never leave the adapter.
type GeolocationProvider interface {
	// Geocode converts free-text input to zero or more location candidates.
	Geocode(ctx context.Context, address string) ([]*entities.SearchLocation, error)

	// ReverseGeocode converts coordinates to a display label.
	ReverseGeocode(ctx context.Context, coord entities.Coordinate) (string, error)
}
