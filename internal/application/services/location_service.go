package services

import (
	"context"
	"errors"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
	"github.com/lumamarket/LocalMarketDiscovery/pkg/config"
)

// LocationService resolves a best-effort current position from the platform
// geolocation capability. Every failure mode (denied, unavailable, timeout,
// unsupported) degrades to "no location obtained" rather than an error:
// manual address entry is always an equally valid path, so location is an
// optimization, never a requirement.
type LocationService struct {
	source  providers.PositionSource
	memory  providers.PermissionMemory
	cfg     config.LocationConfig
	metrics *observability.Metrics
}

// NewLocationService creates a location service. metrics may be nil.
func NewLocationService(
	source providers.PositionSource,
	memory providers.PermissionMemory,
	cfg config.LocationConfig,
	metrics *observability.Metrics,
) *LocationService {
	return &LocationService{
		source:  source,
		memory:  memory,
		cfg:     cfg,
		metrics: metrics,
	}
}

// PermissionState reports the geolocation permission for this session. A
// persisted denial from a past session short-circuits to denied so the UI can
// skip a doomed prompt and offer manual entry directly.
func (s *LocationService) PermissionState(ctx context.Context) entities.PermissionState {
	if s.source == nil || !s.source.Supported() {
		return entities.PermissionUnsupported
	}

	if denied, err := s.memory.DeniedFlag(ctx); err == nil && denied {
		return entities.PermissionDenied
	}

	state, err := s.source.QueryPermission(ctx)
	if err != nil {
		return entities.PermissionPrompt
	}
	return state
}

// CurrentLocation attempts a bounded position fix: a fast low-accuracy
// attempt first, then on timeout a single slower retry with a larger
// cached-position tolerance. The second return value is false when no
// location could be obtained.
func (s *LocationService) CurrentLocation(ctx context.Context) (*entities.Coordinate, bool) {
	logger := observability.LoggerFromContext(ctx)

	if s.source == nil || !s.source.Supported() {
		return nil, false
	}

	attempts := []providers.PositionOptions{
		{HighAccuracy: false, Timeout: s.cfg.FastTimeout, MaxAge: s.cfg.FastMaxAge},
		{HighAccuracy: false, Timeout: s.cfg.SlowTimeout, MaxAge: s.cfg.SlowMaxAge},
	}

	for i, opts := range attempts {
		start := time.Now()
		coord, err := s.requestBounded(ctx, opts)
		if err == nil {
			observability.RecordLocationFix(ctx, s.metrics, "ok", time.Since(start))
			return &coord, true
		}

		switch {
		case errors.Is(err, providers.ErrPermissionDenied):
			// Remember the denial so future sessions skip the prompt.
			if memErr := s.memory.SetDeniedFlag(ctx); memErr != nil {
				logger.Warn().Err(memErr).Msg("failed to persist location denial")
			}
			observability.RecordLocationFix(ctx, s.metrics, "denied", time.Since(start))
			return nil, false
		case errors.Is(err, providers.ErrPositionTimeout) && i == 0:
			logger.Debug().Dur("timeout", opts.Timeout).Msg("fast position fix timed out, retrying")
			continue
		default:
			logger.Debug().Err(err).Msg("position fix failed")
			observability.RecordLocationFix(ctx, s.metrics, "unavailable", time.Since(start))
			return nil, false
		}
	}
	observability.RecordLocationFix(ctx, s.metrics, "timeout", 0)
	return nil, false
}

// requestBounded enforces the attempt timeout even when the underlying
// source ignores its options.
func (s *LocationService) requestBounded(ctx context.Context, opts providers.PositionOptions) (entities.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	coord, err := s.source.RequestCurrentPosition(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return entities.Coordinate{}, providers.ErrPositionTimeout
		}
		return entities.Coordinate{}, err
	}
	return coord, nil
}

// ClearDeniedFlag forgets a persisted denial so a future permission check can
// prompt again. Used when the user explicitly asks to retry.
func (s *LocationService) ClearDeniedFlag(ctx context.Context) error {
	return s.memory.ClearDeniedFlag(ctx)
}
