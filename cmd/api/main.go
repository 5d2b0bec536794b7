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

	"github.com/rs/zerolog/log"

	"github.com/yab-g4u/IDA-sub000/internal/adapters/cache"
	"github.com/yab-g4u/IDA-sub000/internal/adapters/database"
	"github.com/yab-g4u/IDA-sub000/internal/adapters/memory"
	"github.com/yab-g4u/IDA-sub000/internal/adapters/providers/geolocation"
	"github.com/yab-g4u/IDA-sub000/internal/adapters/search"
	"github.com/yab-g4u/IDA-sub000/internal/api/handlers"
	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
	"github.com/yab-g4u/IDA-sub000/internal/api/routes"
	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	"github.com/yab-g4u/IDA-sub000/internal/domain/repositories"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/openai"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/postgres"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/redis"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/typesense"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/observability"
	"github.com/yab-g4u/IDA-sub000/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
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

	checks := map[string]handlers.HealthCheck{}

	// Search history store: Postgres when configured, memory otherwise
	var historyRepo repositories.SearchHistoryRepository
	if cfg.Database.Enabled() {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		if err := pgClient.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
		historyRepo = database.NewSearchHistoryAdapter(pgClient)
		checks["postgres"] = pgClient.Ping
	} else {
		log.Warn().Msg("DB_HOST is not set; search history is kept in memory")
		historyRepo = memory.NewSearchHistoryAdapter(0)
	}

	// Cache: Redis when reachable, in-process otherwise
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client; using in-process cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			checks["redis"] = redisClient.Ping
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter(cfg.Cache.DefaultTTL, cfg.Cache.CleanupInterval)
	}

	gazetteer := catalog.DefaultGazetteer()
	pharmacies := catalog.DefaultPharmacyDataset()
	resolver, err := services.NewLocationResolver(gazetteer, cfg.Geolocation.DefaultCity)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build location resolver")
	}

	// Place sources are asked in order; the first non-empty answer wins
	var sources []providers.PlaceSource
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client; pharmacy index disabled")
		} else {
			if err := tsClient.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			sources = append(sources, search.NewPharmacyIndexAdapter(tsClient))
			checks["typesense"] = func(ctx context.Context) error {
				healthy, err := tsClient.Client().Health(ctx, 2*time.Second)
				if err != nil {
					return err
				}
				if !healthy {
					return errors.New("typesense reports unhealthy")
				}
				return nil
			}
		}
	}

	gazetteerProvider := geolocation.NewGazetteerProvider(gazetteer, resolver, pharmacies)

	var geolocationProvider providers.GeolocationProvider
	switch {
	case cfg.Geolocation.Provider == "google" && cfg.Geolocation.APIKey != "":
		google := geolocation.NewGoogleGeolocationProvider(cfg.Geolocation.APIKey, cacheProvider)
		geolocationProvider = google
		sources = append(sources, google)
	case cfg.Geolocation.Provider == "google":
		log.Warn().Msg("GEOLOCATION_API_KEY is not set; using gazetteer geolocation provider")
		fallthrough
	default:
		geolocationProvider = gazetteerProvider
	}
	// Curated listings answer offline before anything is synthesized
	sources = append(sources, gazetteerProvider)

	var medicineProvider providers.MedicineInfoProvider
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; medicine descriptions come from the catalog")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			defer openaiClient.Close()
			medicineProvider = openaiClient
		}
	}

	// Initialize services
	historyService := services.NewSearchHistoryService(historyRepo)

	finderService := services.NewPharmacyFinderService(
		resolver,
		services.NewPlaceSynthesizer(pharmacies, nil),
		sources,
		cacheProvider,
		historyService,
		services.PharmacyFinderConfig{
			ProviderTimeout: cfg.Places.ProviderTimeout,
			CacheTTL:        cfg.Cache.PharmacyTTL,
			RadiusKm:        float64(cfg.Geolocation.SearchRadiusM) / 1000,
			Synthetic:       services.CountRange{Min: cfg.Places.MinSynthetic, Max: cfg.Places.MaxSynthetic},
		},
	)

	medicineService := services.NewMedicineService(
		catalog.DefaultMedicineCatalog(),
		medicineProvider,
		cacheProvider,
		historyService,
		services.MedicineServiceConfig{
			ProviderTimeout: cfg.OpenAI.Timeout,
			CacheTTL:        cfg.Cache.MedicineTTL,
		},
	)

	locationService := services.NewLocationService(resolver, gazetteer, geolocationProvider)

	router := routes.NewRouter(
		handlers.NewPharmacyHandler(finderService),
		handlers.NewMedicineHandler(medicineService),
		handlers.NewLocationHandler(locationService),
		handlers.NewHistoryHandler(historyService),
		handlers.NewHealthHandler(checks),
		middleware.NewCacheMiddleware(cacheProvider, metrics),
		metrics,
		routes.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			JWTSecret:      cfg.Auth.JWTSecret,
			Compress:       true,
		},
	)
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET is not set; trusting the X-User-ID header")
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Let in-flight history writes land before the store is closed
	historyService.Wait()

	log.Info().Msg("Server stopped")
}
