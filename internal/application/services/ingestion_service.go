package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/repositories"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

// IndexWriter is the ingestion side of the discovery index.
type IndexWriter interface {
	Upsert(item entities.DiscoverableItem)
	Remove(id string)
	Len() int
}

// ItemIngestionService feeds the discovery index: it hydrates it from the
// item repository at startup, applies item feed events from the bus, and is
// the write path for sellers publishing or withdrawing items. Repository and
// bus are both optional so the engine can run from an in-memory feed alone.
type ItemIngestionService struct {
	index   IndexWriter
	repo    repositories.ItemRepository
	bus     providers.EventBus
	clock   providers.Clock
	metrics *observability.Metrics
}

// NewItemIngestionService creates an ingestion service. repo, bus and
// metrics may be nil; a nil clock falls back to the system clock.
func NewItemIngestionService(
	index IndexWriter,
	repo repositories.ItemRepository,
	bus providers.EventBus,
	clock providers.Clock,
	metrics *observability.Metrics,
) *ItemIngestionService {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &ItemIngestionService{
		index:   index,
		repo:    repo,
		bus:     bus,
		clock:   clock,
		metrics: metrics,
	}
}

// Hydrate loads all active items from the repository into the index.
func (s *ItemIngestionService) Hydrate(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to hydrate discovery index", err)
	}

	before := s.index.Len()
	for _, item := range items {
		if item != nil && item.Valid() {
			s.index.Upsert(*item)
		}
	}
	observability.RecordIndexDelta(ctx, s.metrics, int64(s.index.Len()-before))

	observability.LoggerFromContext(ctx).Info().
		Int("items", s.index.Len()).
		Msg("discovery index hydrated")
	return nil
}

// Run subscribes to the item feed and applies events to the index until the
// context is cancelled or the bus closes the channel.
func (s *ItemIngestionService) Run(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}

	events, err := s.bus.Subscribe(ctx, providers.EventChannelItemUpdates)
	if err != nil {
		return apperrors.NewExternalError("failed to subscribe to item feed", err)
	}

	logger := observability.LoggerFromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.apply(ctx, ev, logger)
		}
	}
}

func (s *ItemIngestionService) apply(ctx context.Context, ev *entities.ItemEvent, logger *zerolog.Logger) {
	if ev == nil {
		return
	}
	before := s.index.Len()

	switch ev.Type {
	case entities.ItemEventUpsert:
		if ev.Item == nil || !ev.Item.Valid() {
			logger.Warn().Str("event_id", ev.ID).Msg("dropping malformed upsert event")
			return
		}
		s.index.Upsert(*ev.Item)
	case entities.ItemEventRemove:
		if ev.ItemID == "" {
			logger.Warn().Str("event_id", ev.ID).Msg("dropping remove event without item id")
			return
		}
		s.index.Remove(ev.ItemID)
	default:
		logger.Warn().Str("event_id", ev.ID).Str("type", string(ev.Type)).Msg("dropping unknown item event")
		return
	}

	observability.RecordIndexDelta(ctx, s.metrics, int64(s.index.Len()-before))
}

// PublishUpsert persists and indexes an item and announces it on the feed.
// Items arriving without an id are assigned one.
func (s *ItemIngestionService) PublishUpsert(ctx context.Context, item *entities.DiscoverableItem) error {
	if item == nil {
		return apperrors.NewValidationError("item is required")
	}
	s.stampItem(item)
	if !item.Valid() {
		return apperrors.NewValidationError("malformed discoverable item")
	}

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, item); err != nil {
			return err
		}
	}

	before := s.index.Len()
	s.index.Upsert(*item)
	observability.RecordIndexDelta(ctx, s.metrics, int64(s.index.Len()-before))

	return s.publish(ctx, &entities.ItemEvent{
		ID:         uuid.NewString(),
		Type:       entities.ItemEventUpsert,
		ItemID:     item.ID(),
		Item:       item,
		OccurredAt: s.clock.Now(),
	})
}

// PublishRemove withdraws an item everywhere: repository, index, feed.
func (s *ItemIngestionService) PublishRemove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("item id is required")
	}

	if s.repo != nil {
		if err := s.repo.Remove(ctx, id); err != nil {
			return err
		}
	}

	before := s.index.Len()
	s.index.Remove(id)
	observability.RecordIndexDelta(ctx, s.metrics, int64(s.index.Len()-before))

	return s.publish(ctx, &entities.ItemEvent{
		ID:         uuid.NewString(),
		Type:       entities.ItemEventRemove,
		ItemID:     id,
		OccurredAt: s.clock.Now(),
	})
}

func (s *ItemIngestionService) publish(ctx context.Context, ev *entities.ItemEvent) error {
	if s.bus == nil {
		return nil
	}
	if err := s.bus.Publish(ctx, providers.EventChannelItemUpdates, ev); err != nil {
		// The local index is already current; other nodes catch up on the
		// next hydration.
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("event_id", ev.ID).
			Msg("failed to publish item event")
	}
	return nil
}

// stampItem fills in the id and timestamps of a freshly published item.
func (s *ItemIngestionService) stampItem(item *entities.DiscoverableItem) {
	now := s.clock.Now()
	switch item.Kind {
	case entities.KindListing:
		if item.Listing == nil {
			return
		}
		if item.Listing.ID == "" {
			item.Listing.ID = uuid.NewString()
		}
		if item.Listing.CreatedAt.IsZero() {
			item.Listing.CreatedAt = now
		}
		item.Listing.UpdatedAt = now
	case entities.KindEvent:
		if item.Event == nil {
			return
		}
		if item.Event.ID == "" {
			item.Event.ID = uuid.NewString()
		}
		if item.Event.CreatedAt.IsZero() {
			item.Event.CreatedAt = now
		}
		item.Event.UpdatedAt = now
	}
}
