package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/yab-g4u/IDA-sub000/internal/adapters/search"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/typesense"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/observability"
	"github.com/yab-g4u/IDA-sub000/pkg/config"
)

// indexer loads the curated pharmacy listings into Typesense, once or on a
// fixed interval.
func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the pharmacies collection before indexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("medfinder-indexer", cfg.Server.Environment)

	interval, err := parseInterval(intervalFlag, os.Getenv("REINDEX_INTERVAL"))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid reindex interval")
	}
	if cfg.Typesense.URL == "" {
		log.Fatal().Msg("TYPESENSE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Typesense client")
	}
	indexer := search.NewPharmacyIndexAdapter(client)
	dataset := catalog.DefaultPharmacyDataset()

	if err := indexOnce(ctx, client, indexer, dataset, reset); err != nil {
		log.Fatal().Err(err).Msg("Reindex failed")
	}
	if interval <= 0 {
		return
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) {
			if err := indexOnce(ctx, client, indexer, dataset, false); err != nil {
				log.Error().Err(err).Msg("Scheduled reindex failed")
			}
		}),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("pharmacy_reindex_job"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule reindex job")
	}

	scheduler.Start()
	log.Info().Dur("interval", interval).Msg("Reindexer scheduled")

	<-ctx.Done()
	log.Info().Msg("Reindexer shutting down")
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Failed to stop scheduler")
	}
}

// parseInterval prefers the flag over the environment. Empty means run once.
func parseInterval(flagValue, envValue string) (time.Duration, error) {
	value := strings.TrimSpace(flagValue)
	if value == "" {
		value = strings.TrimSpace(envValue)
	}
	if value == "" {
		return 0, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", value, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be greater than zero, got %s", interval)
	}
	return interval, nil
}

func indexOnce(ctx context.Context, client *typesense.Client, indexer *search.PharmacyIndexAdapter, dataset *catalog.PharmacyDataset, reset bool) error {
	start := time.Now()

	if reset {
		if err := client.DropCollection(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to drop pharmacies collection")
		}
	}
	if err := client.InitSchema(ctx); err != nil {
		return err
	}

	n, err := indexer.IndexAll(ctx, dataset.All())
	if err != nil {
		return fmt.Errorf("indexed %d pharmacies before failing: %w", n, err)
	}

	log.Info().Int("pharmacies", n).Dur("took", time.Since(start)).Msg("Reindex complete")
	return nil
}
