package repositories

import (
	"context"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// ItemRepository defines persistence for discoverable items. It is the
// external item source behind the discovery index; the index itself never
// touches storage.
type ItemRepository interface {
	// GetByID retrieves an item by its id.
	GetByID(ctx context.Context, id string) (*entities.DiscoverableItem, error)

	// ListActive returns all items that should be discoverable.
	ListActive(ctx context.Context) ([]*entities.DiscoverableItem, error)

	// Upsert creates or replaces an item.
	Upsert(ctx context.Context, item *entities.DiscoverableItem) error

	// Remove deletes an item by id.
	Remove(ctx context.Context, id string) error
}
