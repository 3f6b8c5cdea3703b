package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/cache"
	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/database"
	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/events"
	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/index"
	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/providers/geolocation"
	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/providers/position"
	"github.com/lumamarket/LocalMarketDiscovery/internal/api/handlers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/api/routes"
	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/filter"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/repositories"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/clients/postgres"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/clients/redis"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
	queryservices "github.com/lumamarket/LocalMarketDiscovery/internal/query/services"
	"github.com/lumamarket/LocalMarketDiscovery/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry tracing, if configured
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// PostgreSQL is optional: without it the engine runs from the feed alone.
	var itemRepo repositories.ItemRepository
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("running without PostgreSQL; items will not persist")
	} else {
		defer pgClient.Close()
		itemRepo = database.NewItemAdapter(pgClient)
		logger.Info().Msg("PostgreSQL client initialized")
	}

	// Redis is optional too: it carries the cache, the permission memory and
	// the item feed.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	var permissionMemory providers.PermissionMemory
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("running without Redis; cache and item feed disabled")
		permissionMemory = cache.NewMemoryPermissionStore()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		permissionMemory = cache.NewPermissionStore(cacheProvider)
		logger.Info().Msg("Redis client initialized")
	}

	geolocationProvider := geolocation.NewFromConfig(cfg.Geocoder, cacheProvider)

	var positionSource providers.PositionSource
	if src := position.NewStaticSourceFromEnv(); src != nil {
		positionSource = src
		logger.Info().Msg("static device position configured")
	} else {
		positionSource = position.NewUnsupportedSource()
	}

	// Core engine
	discoveryIndex := index.NewMemoryIndex(filter.NewPredicate(providers.SystemClock{}))
	searchService := services.NewSearchService(discoveryIndex, metrics)
	locationService := services.NewLocationService(positionSource, permissionMemory, cfg.Location, metrics)
	ingestionService := services.NewItemIngestionService(discoveryIndex, itemRepo, eventBus, providers.SystemClock{}, metrics)
	itemQueryService := queryservices.NewItemQueryService(discoveryIndex, itemRepo, cacheProvider, metrics)

	if err := ingestionService.Hydrate(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to hydrate discovery index")
	}
	if eventBus != nil {
		go func() {
			if err := ingestionService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("item feed subscriber stopped")
			}
		}()
	}

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService, locationService),
		handlers.NewItemHandler(itemQueryService, ingestionService),
		handlers.NewGeolocationHandler(geolocationProvider),
		handlers.NewLocationHandler(locationService),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
