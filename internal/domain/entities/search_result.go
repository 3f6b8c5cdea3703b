package entities

// RankedResult is a discoverable item annotated with its computed distance
// from the search origin. It is recomputed on every search and never persisted.
type RankedResult struct {
	Item       DiscoverableItem `json:"item"`
	DistanceKm float64          `json:"distance_km"`
}

// IndexedItem is an item as returned by a discovery index query, carrying the
// index's monotonically increasing insertion sequence number. The sequence
// drives the "newest" sort order.
type IndexedItem struct {
	Item     DiscoverableItem
	Sequence uint64
}
