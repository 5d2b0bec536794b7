package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/yab-g4u/IDA-sub000/pkg/config"
	"github.com/yab-g4u/IDA-sub000/pkg/retry"
)

const (
	PharmaciesCollection = "pharmacies"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a Typesense client and waits for the server to report
// healthy, retrying with exponential backoff.
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryConfig := retry.DefaultConfig()
	retryConfig.MaxTotalTimeout = 20 * time.Second
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			healthy, err := client.Health(ctx, 2*time.Second)
			if err != nil {
				return err
			}
			if !healthy {
				return fmt.Errorf("typesense reports unhealthy")
			}
			return nil
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// NewClientFromTypesense wraps an existing client without a health check.
func NewClientFromTypesense(client *typesense.Client) *Client {
	return &Client{client: client}
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema creates the pharmacies collection when it does not exist.
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := c.client.Collection(PharmaciesCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: PharmaciesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "contact", Type: "string", Optional: pointer.True()},
			{Name: "hours", Type: "string", Optional: pointer.True()},
			{Name: "website", Type: "string", Optional: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", PharmaciesCollection, err)
	}

	log.Info().Str("collection", PharmaciesCollection).Msg("Created Typesense collection")
	return nil
}

// DropCollection deletes the pharmacies collection.
func (c *Client) DropCollection(ctx context.Context) error {
	if _, err := c.client.Collection(PharmaciesCollection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", PharmaciesCollection, err)
	}
	return nil
}
