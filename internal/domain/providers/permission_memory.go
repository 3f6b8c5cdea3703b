package providers

import "context"

// PermissionMemory persists the "previously denied" geolocation flag across
// sessions so a doomed permission prompt can be skipped and manual address
// entry offered directly.
type PermissionMemory interface {
	// DeniedFlag reports whether a past session recorded a denial.
	DeniedFlag(ctx context.Context) (bool, error)

	// SetDeniedFlag records a denial.
	SetDeniedFlag(ctx context.Context) error

	// ClearDeniedFlag forgets a recorded denial so the next permission check
	// can prompt again.
	ClearDeniedFlag(ctx context.Context) error
}
