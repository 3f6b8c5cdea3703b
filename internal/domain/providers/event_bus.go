package providers

import (
	"context"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to item feed
// events. The listings/events persistence layer publishes here; the discovery
// index is kept in sync by a subscriber.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ItemEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ItemEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelItemUpdates is the channel carrying all item feed events
	EventChannelItemUpdates = "items:updates"

	// EventChannelItemPrefix is the prefix for item-specific channels
	EventChannelItemPrefix = "items:"
)

// ItemChannel returns the channel name for a specific item.
func ItemChannel(itemID string) string {
	return EventChannelItemPrefix + itemID
}
