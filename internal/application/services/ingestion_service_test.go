package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/index"
	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/filter"
)

// fakeItemRepository is an in-memory ItemRepository.
type fakeItemRepository struct {
	items map[string]*entities.DiscoverableItem
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[string]*entities.DiscoverableItem)}
}

func (r *fakeItemRepository) GetByID(ctx context.Context, id string) (*entities.DiscoverableItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (r *fakeItemRepository) ListActive(ctx context.Context) ([]*entities.DiscoverableItem, error) {
	out := make([]*entities.DiscoverableItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeItemRepository) Upsert(ctx context.Context, item *entities.DiscoverableItem) error {
	r.items[item.ID()] = item
	return nil
}

func (r *fakeItemRepository) Remove(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

// fakeEventBus delivers published events straight to its subscriber channel.
type fakeEventBus struct {
	ch        chan *entities.ItemEvent
	published []*entities.ItemEvent
}

func newFakeEventBus() *fakeEventBus {
	return &fakeEventBus{ch: make(chan *entities.ItemEvent, 16)}
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.ItemEvent) error {
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ItemEvent, error) {
	return b.ch, nil
}

func (b *fakeEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }
func (b *fakeEventBus) Close() error {
	close(b.ch)
	return nil
}

func newIndex() *index.MemoryIndex {
	return index.NewMemoryIndex(filter.NewPredicate(fixedClock{now: clockNow}))
}

func TestHydrate_LoadsRepositoryIntoIndex(t *testing.T) {
	repo := newFakeItemRepository()
	a := listingAt("a", "books", 10, atKm(1))
	b := eventAt("b", "market", clockNow, atKm(2))
	require.NoError(t, repo.Upsert(context.Background(), &a))
	require.NoError(t, repo.Upsert(context.Background(), &b))

	idx := newIndex()
	svc := services.NewItemIngestionService(idx, repo, nil, nil, nil)

	require.NoError(t, svc.Hydrate(context.Background()))
	assert.Equal(t, 2, idx.Len())
}

func TestRun_AppliesFeedEvents(t *testing.T) {
	idx := newIndex()
	bus := newFakeEventBus()
	svc := services.NewItemIngestionService(idx, nil, bus, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	item := listingAt("a", "books", 10, atKm(1))
	bus.ch <- &entities.ItemEvent{Type: entities.ItemEventUpsert, ItemID: "a", Item: &item}
	assert.Eventually(t, func() bool {
		return idx.Len() == 1
	}, time.Second, 5*time.Millisecond)

	bus.ch <- &entities.ItemEvent{Type: entities.ItemEventRemove, ItemID: "a"}
	// Malformed events are dropped, not fatal.
	bus.ch <- &entities.ItemEvent{Type: entities.ItemEventUpsert}
	assert.Eventually(t, func() bool {
		return idx.Len() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestPublishUpsert_PersistsIndexesAndAnnounces(t *testing.T) {
	repo := newFakeItemRepository()
	bus := newFakeEventBus()
	idx := newIndex()
	svc := services.NewItemIngestionService(idx, repo, bus, fixedClock{now: clockNow}, nil)

	item := entities.NewListingItem(entities.Listing{
		Coordinate: atKm(1),
		Title:      "Clay pots",
		Category:   "garden",
		Price:      25,
	})

	require.NoError(t, svc.PublishUpsert(context.Background(), &item))

	// An id was assigned and everything agrees on it.
	id := item.ID()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, idx.Len())
	assert.Contains(t, repo.items, id)
	require.Len(t, bus.published, 1)
	assert.Equal(t, entities.ItemEventUpsert, bus.published[0].Type)
	assert.Equal(t, id, bus.published[0].ItemID)
	assert.Equal(t, clockNow, item.Listing.UpdatedAt)
}

func TestPublishUpsert_RejectsMalformedItem(t *testing.T) {
	svc := services.NewItemIngestionService(newIndex(), nil, nil, nil, nil)

	item := entities.NewListingItem(entities.Listing{
		Coordinate: entities.Coordinate{Latitude: 200, Longitude: 0},
		Title:      "Broken",
	})
	assert.Error(t, svc.PublishUpsert(context.Background(), &item))
	assert.Error(t, svc.PublishUpsert(context.Background(), nil))
}

func TestPublishRemove_WithdrawsEverywhere(t *testing.T) {
	repo := newFakeItemRepository()
	bus := newFakeEventBus()
	idx := newIndex()
	svc := services.NewItemIngestionService(idx, repo, bus, nil, nil)

	item := listingAt("a", "books", 10, atKm(1))
	require.NoError(t, svc.PublishUpsert(context.Background(), &item))
	require.Equal(t, 1, idx.Len())

	require.NoError(t, svc.PublishRemove(context.Background(), "a"))
	assert.Equal(t, 0, idx.Len())
	assert.NotContains(t, repo.items, "a")
	require.Len(t, bus.published, 2)
	assert.Equal(t, entities.ItemEventRemove, bus.published[1].Type)
}
