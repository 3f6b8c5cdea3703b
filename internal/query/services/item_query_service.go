package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/repositories"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

const itemCacheTTLSeconds = 300

// IndexReader is the read side of the discovery index.
type IndexReader interface {
	Get(id string) (entities.DiscoverableItem, bool)
}

// ItemQueryService handles read-only item lookups. Reads go cache first, then
// the in-memory index, then the repository; the repository answer is written
// back to the cache.
type ItemQueryService struct {
	index   IndexReader
	repo    repositories.ItemRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewItemQueryService creates a new item query service. index, cache and
// metrics are optional.
func NewItemQueryService(
	index IndexReader,
	repo repositories.ItemRepository,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *ItemQueryService {
	return &ItemQueryService{
		index:   index,
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

func itemCacheKey(id string) string {
	return "item:" + id
}

// GetByID retrieves a single item by its id.
func (s *ItemQueryService) GetByID(ctx context.Context, id string) (*entities.DiscoverableItem, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("item id is required")
	}

	cacheKey := itemCacheKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var item entities.DiscoverableItem
			if err := json.Unmarshal(cached, &item); err == nil && item.Valid() {
				observability.RecordCacheHit(ctx, s.metrics, cacheKey)
				return &item, nil
			}
		}
		observability.RecordCacheMiss(ctx, s.metrics, cacheKey)
	}

	if s.index != nil {
		if item, ok := s.index.Get(id); ok {
			s.writeBack(ctx, cacheKey, &item)
			return &item, nil
		}
	}

	if s.repo == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("item with id %s not found", id))
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.writeBack(ctx, cacheKey, item)
	return item, nil
}

func (s *ItemQueryService) writeBack(ctx context.Context, key string, item *entities.DiscoverableItem) {
	if s.cache == nil || item == nil {
		return
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, itemCacheTTLSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache item")
	}
}
