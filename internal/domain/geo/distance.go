// Package geo provides pure great-circle math over coordinates.
package geo

import (
	"fmt"
	"math"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

// Mean Earth radius in kilometers.
const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two coordinates in
// kilometers. It is symmetric, zero iff the coordinates are equal, and has no
// side effects. Out-of-range input is a caller contract violation.
func DistanceKm(a, b entities.Coordinate) (float64, error) {
	if !a.Valid() {
		return 0, apperrors.NewInvalidCoordinateError(
			fmt.Sprintf("coordinate out of range: lat=%f lon=%f", a.Latitude, a.Longitude))
	}
	if !b.Valid() {
		return 0, apperrors.NewInvalidCoordinateError(
			fmt.Sprintf("coordinate out of range: lat=%f lon=%f", b.Latitude, b.Longitude))
	}

	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c, nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
