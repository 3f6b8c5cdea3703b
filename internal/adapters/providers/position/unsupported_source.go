package position

import (
	"context"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

// UnsupportedSource is the position source for platforms without geolocation.
// Every request fails and the permission state is unsupported, so the engine
// falls back to address entry.
type UnsupportedSource struct{}

// NewUnsupportedSource creates a source that never produces a fix.
func NewUnsupportedSource() *UnsupportedSource {
	return &UnsupportedSource{}
}

// RequestCurrentPosition always fails.
func (s *UnsupportedSource) RequestCurrentPosition(ctx context.Context, opts providers.PositionOptions) (entities.Coordinate, error) {
	return entities.Coordinate{}, providers.ErrPositionUnavailable
}

// QueryPermission reports the unsupported state.
func (s *UnsupportedSource) QueryPermission(ctx context.Context) (entities.PermissionState, error) {
	return entities.PermissionUnsupported, nil
}

// Supported reports false.
func (s *UnsupportedSource) Supported() bool {
	return false
}
