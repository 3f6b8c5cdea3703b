package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/pkg/config"
)

// fakePositionSource scripts one response per fix attempt.
type fakePositionSource struct {
	supported   bool
	permission  entities.PermissionState
	permErr     error
	responses   []fixResponse
	attempts    int
	promptCalls int
}

type fixResponse struct {
	coord entities.Coordinate
	err   error
}

func (f *fakePositionSource) RequestCurrentPosition(ctx context.Context, opts providers.PositionOptions) (entities.Coordinate, error) {
	if f.attempts >= len(f.responses) {
		return entities.Coordinate{}, providers.ErrPositionUnavailable
	}
	r := f.responses[f.attempts]
	f.attempts++
	return r.coord, r.err
}

func (f *fakePositionSource) QueryPermission(ctx context.Context) (entities.PermissionState, error) {
	f.promptCalls++
	return f.permission, f.permErr
}

func (f *fakePositionSource) Supported() bool { return f.supported }

// fakePermissionMemory is an in-memory denial flag store.
type fakePermissionMemory struct {
	denied bool
}

func (m *fakePermissionMemory) DeniedFlag(ctx context.Context) (bool, error) { return m.denied, nil }
func (m *fakePermissionMemory) SetDeniedFlag(ctx context.Context) error {
	m.denied = true
	return nil
}
func (m *fakePermissionMemory) ClearDeniedFlag(ctx context.Context) error {
	m.denied = false
	return nil
}

func locationCfg() config.LocationConfig {
	return config.LocationConfig{
		FastTimeout: 50 * time.Millisecond,
		SlowTimeout: 100 * time.Millisecond,
		FastMaxAge:  time.Minute,
		SlowMaxAge:  5 * time.Minute,
	}
}

func TestCurrentLocation_FastFixSucceeds(t *testing.T) {
	coord := entities.Coordinate{Latitude: 6.52, Longitude: 3.37}
	source := &fakePositionSource{
		supported: true,
		responses: []fixResponse{{coord: coord}},
	}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)

	got, ok := svc.CurrentLocation(context.Background())
	require.True(t, ok)
	assert.Equal(t, coord, *got)
	assert.Equal(t, 1, source.attempts)
}

func TestCurrentLocation_RetriesOnceAfterTimeout(t *testing.T) {
	coord := entities.Coordinate{Latitude: 6.52, Longitude: 3.37}
	source := &fakePositionSource{
		supported: true,
		responses: []fixResponse{
			{err: providers.ErrPositionTimeout},
			{coord: coord},
		},
	}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)

	got, ok := svc.CurrentLocation(context.Background())
	require.True(t, ok)
	assert.Equal(t, coord, *got)
	assert.Equal(t, 2, source.attempts)
}

func TestCurrentLocation_BothAttemptsTimeOut(t *testing.T) {
	source := &fakePositionSource{
		supported: true,
		responses: []fixResponse{
			{err: providers.ErrPositionTimeout},
			{err: providers.ErrPositionTimeout},
		},
	}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)

	got, ok := svc.CurrentLocation(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 2, source.attempts)
}

func TestCurrentLocation_UnavailableDoesNotRetry(t *testing.T) {
	source := &fakePositionSource{
		supported: true,
		responses: []fixResponse{{err: providers.ErrPositionUnavailable}},
	}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)

	_, ok := svc.CurrentLocation(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 1, source.attempts)
}

func TestCurrentLocation_DenialPersistsAcrossChecks(t *testing.T) {
	source := &fakePositionSource{
		supported:  true,
		permission: entities.PermissionPrompt,
		responses:  []fixResponse{{err: providers.ErrPermissionDenied}},
	}
	memory := &fakePermissionMemory{}
	svc := services.NewLocationService(source, memory, locationCfg(), nil)

	_, ok := svc.CurrentLocation(context.Background())
	assert.False(t, ok)

	// The next permission check short-circuits to denied without
	// re-prompting the platform.
	state := svc.PermissionState(context.Background())
	assert.Equal(t, entities.PermissionDenied, state)
	assert.Equal(t, 0, source.promptCalls)

	// Until the user explicitly retries.
	require.NoError(t, svc.ClearDeniedFlag(context.Background()))
	state = svc.PermissionState(context.Background())
	assert.Equal(t, entities.PermissionPrompt, state)
	assert.Equal(t, 1, source.promptCalls)
}

func TestPermissionState_Unsupported(t *testing.T) {
	svc := services.NewLocationService(&fakePositionSource{supported: false}, &fakePermissionMemory{}, locationCfg(), nil)
	assert.Equal(t, entities.PermissionUnsupported, svc.PermissionState(context.Background()))

	_, ok := svc.CurrentLocation(context.Background())
	assert.False(t, ok)
}

func TestPermissionState_DefaultsToPromptWhenUnreportable(t *testing.T) {
	source := &fakePositionSource{
		supported: true,
		permErr:   providers.ErrPositionUnavailable,
	}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)
	assert.Equal(t, entities.PermissionPrompt, svc.PermissionState(context.Background()))
}

func TestPermissionState_ReportsPlatformState(t *testing.T) {
	source := &fakePositionSource{supported: true, permission: entities.PermissionGranted}
	svc := services.NewLocationService(source, &fakePermissionMemory{}, locationCfg(), nil)
	assert.Equal(t, entities.PermissionGranted, svc.PermissionState(context.Background()))
}
