package cache

import (
	"context"
	"sync"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

const deniedFlagKey = "location:denied"

// PermissionStore persists the geolocation "previously denied" flag in the
// cache so future sessions can skip a doomed permission prompt.
type PermissionStore struct {
	cache providers.CacheProvider
}

// NewPermissionStore creates a cache-backed permission memory.
func NewPermissionStore(cache providers.CacheProvider) providers.PermissionMemory {
	return &PermissionStore{cache: cache}
}

// DeniedFlag reports whether a past session recorded a denial.
func (s *PermissionStore) DeniedFlag(ctx context.Context) (bool, error) {
	_, err := s.cache.Get(ctx, deniedFlagKey)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetDeniedFlag records a denial. The flag has no expiration; it is cleared
// only by an explicit user retry.
func (s *PermissionStore) SetDeniedFlag(ctx context.Context) error {
	return s.cache.Set(ctx, deniedFlagKey, []byte("1"), 0)
}

// ClearDeniedFlag forgets a recorded denial.
func (s *PermissionStore) ClearDeniedFlag(ctx context.Context) error {
	return s.cache.Delete(ctx, deniedFlagKey)
}

// MemoryPermissionStore is an in-process permission memory for tests and
// cacheless deployments.
type MemoryPermissionStore struct {
	mu     sync.Mutex
	denied bool
}

// NewMemoryPermissionStore creates an empty in-process permission memory.
func NewMemoryPermissionStore() *MemoryPermissionStore {
	return &MemoryPermissionStore{}
}

// DeniedFlag reports whether a denial was recorded.
func (s *MemoryPermissionStore) DeniedFlag(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.denied, nil
}

// SetDeniedFlag records a denial.
func (s *MemoryPermissionStore) SetDeniedFlag(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = true
	return nil
}

// ClearDeniedFlag forgets a recorded denial.
func (s *MemoryPermissionStore) ClearDeniedFlag(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = false
	return nil
}
