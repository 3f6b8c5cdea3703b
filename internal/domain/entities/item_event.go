package entities

import "time"

// ItemEventType discriminates item feed events.
type ItemEventType string

const (
	// ItemEventUpsert signals a created or updated item
	ItemEventUpsert ItemEventType = "upsert"

	// ItemEventRemove signals a withdrawn item
	ItemEventRemove ItemEventType = "remove"
)

// ItemEvent is one message on the item source feed. Upsert events carry the
// full item snapshot; remove events carry only the item id.
type ItemEvent struct {
	ID         string            `json:"id"`
	Type       ItemEventType     `json:"type"`
	ItemID     string            `json:"item_id"`
	Item       *DiscoverableItem `json:"item,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
