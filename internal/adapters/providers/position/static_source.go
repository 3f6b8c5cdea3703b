package position

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

// StaticSource is a position source pinned to a fixed coordinate, used in
// development and for server deployments where the caller supplies no device
// fix. An optional artificial latency exercises the timeout path.
type StaticSource struct {
	coord      entities.Coordinate
	permission entities.PermissionState
	latency    time.Duration
}

// NewStaticSource creates a position source that always reports coord.
func NewStaticSource(coord entities.Coordinate) *StaticSource {
	return &StaticSource{
		coord:      coord,
		permission: entities.PermissionGranted,
	}
}

// NewStaticSourceFromEnv builds a static source from DEVICE_LAT/DEVICE_LON.
// It returns nil when the variables are absent, which callers treat as an
// unsupported platform.
func NewStaticSourceFromEnv() *StaticSource {
	latStr, lonStr := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}

	src := NewStaticSource(entities.Coordinate{Latitude: lat, Longitude: lon})
	if d, err := time.ParseDuration(os.Getenv("DEVICE_FIX_LATENCY")); err == nil {
		src.latency = d
	}
	return src
}

// WithLatency sets an artificial delay before each fix.
func (s *StaticSource) WithLatency(d time.Duration) *StaticSource {
	s.latency = d
	return s
}

// WithPermission overrides the reported permission state.
func (s *StaticSource) WithPermission(state entities.PermissionState) *StaticSource {
	s.permission = state
	return s
}

// RequestCurrentPosition returns the pinned coordinate after the configured
// latency, honoring the attempt timeout.
func (s *StaticSource) RequestCurrentPosition(ctx context.Context, opts providers.PositionOptions) (entities.Coordinate, error) {
	if s.permission == entities.PermissionDenied {
		return entities.Coordinate{}, providers.ErrPermissionDenied
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return entities.Coordinate{}, providers.ErrPositionTimeout
		case <-timer.C:
		}
	}

	return s.coord, nil
}

// QueryPermission reports the configured permission state.
func (s *StaticSource) QueryPermission(ctx context.Context) (entities.PermissionState, error) {
	return s.permission, nil
}

// Supported reports true; a static source always has a fix to give.
func (s *StaticSource) Supported() bool {
	return true
}
