package providers

import (
	"context"
	"errors"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// Position fix failures reported by the platform capability. Every one of
// them degrades to "no location obtained" at the engine boundary.
var (
	// ErrPermissionDenied means the user refused the permission prompt
	ErrPermissionDenied = errors.New("geolocation permission denied")

	// ErrPositionUnavailable means the platform could not produce a fix
	ErrPositionUnavailable = errors.New("position unavailable")

	// ErrPositionTimeout means the fix did not arrive within the deadline
	ErrPositionTimeout = errors.New("position request timed out")
)

// PositionOptions bounds a single position fix attempt.
type PositionOptions struct {
	// HighAccuracy requests a precise fix at the cost of latency
	HighAccuracy bool

	// Timeout bounds how long the attempt may block
	Timeout time.Duration

	// MaxAge is the oldest acceptable cached fix
	MaxAge time.Duration
}

// PositionSource is the platform geolocation capability: browser geolocation,
// an OS location service, or a fake in tests. The engine consumes it and
// never implements it.
type PositionSource interface {
	// RequestCurrentPosition attempts a single bounded position fix.
	RequestCurrentPosition(ctx context.Context, opts PositionOptions) (entities.Coordinate, error)

	// QueryPermission reports the platform permission status. Implementations
	// that cannot report one return PermissionPrompt.
	QueryPermission(ctx context.Context) (entities.PermissionState, error)

	// Supported reports whether the platform exposes geolocation at all.
	Supported() bool
}
