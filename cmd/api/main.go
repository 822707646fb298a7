package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vendorshub/backend/internal/adapters/auth"
	"github.com/vendorshub/backend/internal/adapters/cache"
	"github.com/vendorshub/backend/internal/adapters/database"
	"github.com/vendorshub/backend/internal/adapters/events"
	"github.com/vendorshub/backend/internal/adapters/search"
	"github.com/vendorshub/backend/internal/adapters/storage"
	"github.com/vendorshub/backend/internal/api/handlers"
	"github.com/vendorshub/backend/internal/api/middleware"
	"github.com/vendorshub/backend/internal/api/routes"
	"github.com/vendorshub/backend/internal/application/services"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/clients/postgres"
	"github.com/vendorshub/backend/internal/infrastructure/clients/redis"
	"github.com/vendorshub/backend/internal/infrastructure/clients/typesense"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
	"github.com/vendorshub/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Postgres is required
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	pgClient.SetMetrics(metrics)

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Redis is optional: without it there is no caching and no live updates
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; caching and live updates disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	// Typesense is optional: without it suggestions are empty
	var searchRepo repositories.VendorSearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable; suggestions disabled")
	} else if err := typesenseClient.InitSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to init Typesense schema; suggestions disabled")
	} else {
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	imageStore, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize image storage")
	}

	userRepo := database.NewUserAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	vendorRepo := database.NewVendorAdapter(pgClient)
	if cacheProvider != nil {
		vendorRepo = database.NewCachedVendorAdapter(vendorRepo, cacheProvider)
	}

	tokens := auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accountService := services.NewAccountService(userRepo, tokens)
	listingService := services.NewListingService(vendorRepo)
	reviewService := services.NewReviewService(vendorRepo, reviewRepo, eventBus)
	vendorService := services.NewVendorService(vendorRepo, reviewRepo, searchRepo, eventBus)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
		}
	}

	if cacheProvider != nil && cfg.Redis.WarmInterval > 0 {
		services.NewCacheWarmingService(vendorRepo).StartPeriodicWarming(ctx, cfg.Redis.WarmInterval)
		log.Info().Dur("interval", cfg.Redis.WarmInterval).Msg("Cache warming started")
	}

	uploads := handlers.NewUploads(imageStore, cfg.Storage.MaxUploadBytes)

	healthChecks := map[string]handlers.Pinger{"postgres": pgClient}
	if redisClient != nil {
		healthChecks["redis"] = redisClient
	}

	h := routes.Handlers{
		Health:  handlers.NewHealthHandler(healthChecks),
		Auth:    handlers.NewAuthHandler(accountService),
		Listing: handlers.NewListingHandler(listingService, searchRepo),
		Vendor:  handlers.NewVendorHandler(vendorService, uploads),
		Review:  handlers.NewReviewHandler(reviewService, uploads),
		SSE:     handlers.NewSSEHandler(eventBus, vendorRepo, metrics),
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(h, middleware.NewAuth(tokens), cacheMiddleware, userRepo, metrics, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     router.SetupRoutes(),
		ReadTimeout: 30 * time.Second,
		// no WriteTimeout; event streams end when ctx is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (providers.ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		return storage.NewS3ImageStore(ctx, cfg)
	default:
		return storage.NewLocalImageStore(cfg.LocalDir)
	}
}
