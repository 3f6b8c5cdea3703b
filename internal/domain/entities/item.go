package entities

import "time"

// ItemKind discriminates the two discoverable item variants.
type ItemKind string

const (
	// KindListing marks a commerce listing
	KindListing ItemKind = "listing"

	// KindEvent marks a location-bound event
	KindEvent ItemKind = "event"
)

// Listing represents a commerce listing published by a seller.
type Listing struct {
	ID          string     `json:"id"`
	Coordinate  Coordinate `json:"coordinate"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags,omitempty"`
	SellerName  string     `json:"seller_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Event represents a location-bound event such as a market day or a meetup.
type Event struct {
	ID          string     `json:"id"`
	Coordinate  Coordinate `json:"coordinate"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	EventType   string     `json:"event_type"`
	Tags        []string   `json:"tags,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	SellerName  string     `json:"seller_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DiscoverableItem is a tagged union over the two item variants. Exactly one of
// Listing/Event is populated, matching Kind. The engine treats items as
// read-only snapshots for the duration of a search and never mutates them.
type DiscoverableItem struct {
	Kind    ItemKind `json:"kind"`
	Listing *Listing `json:"listing,omitempty"`
	Event   *Event   `json:"event,omitempty"`
}

// NewListingItem wraps a listing in the union type.
func NewListingItem(l Listing) DiscoverableItem {
	return DiscoverableItem{Kind: KindListing, Listing: &l}
}

// NewEventItem wraps an event in the union type.
func NewEventItem(e Event) DiscoverableItem {
	return DiscoverableItem{Kind: KindEvent, Event: &e}
}

// ID returns the stable unique identifier regardless of variant.
func (i DiscoverableItem) ID() string {
	switch i.Kind {
	case KindListing:
		return i.Listing.ID
	case KindEvent:
		return i.Event.ID
	}
	return ""
}

// Coordinate returns the item position regardless of variant.
func (i DiscoverableItem) Coordinate() Coordinate {
	switch i.Kind {
	case KindListing:
		return i.Listing.Coordinate
	case KindEvent:
		return i.Event.Coordinate
	}
	return Coordinate{}
}

// Title returns the item title regardless of variant.
func (i DiscoverableItem) Title() string {
	switch i.Kind {
	case KindListing:
		return i.Listing.Title
	case KindEvent:
		return i.Event.Title
	}
	return ""
}

// Tags returns the item tags regardless of variant.
func (i DiscoverableItem) Tags() []string {
	switch i.Kind {
	case KindListing:
		return i.Listing.Tags
	case KindEvent:
		return i.Event.Tags
	}
	return nil
}

// Valid reports whether the union is well formed: the kind matches the single
// populated variant and the variant carries an id and a valid coordinate.
func (i DiscoverableItem) Valid() bool {
	switch i.Kind {
	case KindListing:
		return i.Listing != nil && i.Event == nil &&
			i.Listing.ID != "" && i.Listing.Coordinate.Valid() && i.Listing.Price >= 0
	case KindEvent:
		return i.Event != nil && i.Listing == nil &&
			i.Event.ID != "" && i.Event.Coordinate.Valid()
	}
	return false
}
