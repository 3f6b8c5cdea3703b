// Package index holds the in-memory working set of discoverable items.
package index

import (
	"sync"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/filter"
)

type entry struct {
	item entities.DiscoverableItem
	seq  uint64
}

// MemoryIndex is the session working set of discoverable items. Writes are
// serialized behind a single lock; queries take a read lock and evaluate the
// filter predicate over a stable view.
type MemoryIndex struct {
	mu        sync.RWMutex
	items     map[string]entry
	nextSeq   uint64
	predicate *filter.Predicate
}

// NewMemoryIndex creates an empty index evaluating matches with the given
// predicate.
func NewMemoryIndex(predicate *filter.Predicate) *MemoryIndex {
	if predicate == nil {
		predicate = filter.NewPredicate(nil)
	}
	return &MemoryIndex{
		items:     make(map[string]entry),
		predicate: predicate,
	}
}

// Upsert inserts or replaces an item. Each upsert advances the sequence
// number, so a replaced item counts as newer than anything before it.
func (x *MemoryIndex) Upsert(item entities.DiscoverableItem) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.nextSeq++
	x.items[item.ID()] = entry{item: item, seq: x.nextSeq}
}

// Remove deletes an item by id. Removing an unknown id is a no-op.
func (x *MemoryIndex) Remove(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.items, id)
}

// Get returns the indexed item by id.
func (x *MemoryIndex) Get(id string) (entities.DiscoverableItem, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.items[id]
	return e.item, ok
}

// Len returns the number of indexed items.
func (x *MemoryIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// Query returns the candidates matching the spec. Each call re-evaluates the
// predicate, so results reflect any index mutation since the previous call.
// No ordering is guaranteed; ordering is the orchestrator's responsibility.
func (x *MemoryIndex) Query(spec entities.FilterSpec) []entities.IndexedItem {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []entities.IndexedItem
	for _, e := range x.items {
		if x.predicate.Matches(e.item, spec) {
			out = append(out, entities.IndexedItem{Item: e.item, Sequence: e.seq})
		}
	}
	return out
}
