package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	tsclient "github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/typesense"
)

// PharmacyIndexAdapter stores pharmacy listings in Typesense and serves
// geo-radius lookups from them.
type PharmacyIndexAdapter struct {
	client *tsclient.Client
	now    func() time.Time
}

var _ providers.PlaceSource = (*PharmacyIndexAdapter)(nil)

// NewPharmacyIndexAdapter creates a new Typesense pharmacy adapter
func NewPharmacyIndexAdapter(client *tsclient.Client) *PharmacyIndexAdapter {
	return &PharmacyIndexAdapter{client: client, now: time.Now}
}

func (a *PharmacyIndexAdapter) Name() entities.PlaceOrigin {
	return entities.PlaceOriginTypesense
}

// Index upserts a single pharmacy tagged with its city.
func (a *PharmacyIndexAdapter) Index(ctx context.Context, city string, place entities.Place) error {
	doc := pharmacyDocument(city, place, a.now())
	if _, err := a.client.Client().Collection(tsclient.PharmaciesCollection).Documents().Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to index pharmacy %s: %w", place.ID, err)
	}
	return nil
}

// IndexAll upserts every listing and returns how many documents were
// written. It stops at the first failure.
func (a *PharmacyIndexAdapter) IndexAll(ctx context.Context, listings map[string][]entities.Place) (int, error) {
	cities := make([]string, 0, len(listings))
	for city := range listings {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	indexed := 0
	for _, city := range cities {
		for _, place := range listings[city] {
			if err := a.Index(ctx, city, place); err != nil {
				return indexed, err
			}
			indexed++
		}
	}
	return indexed, nil
}

// NearbyPharmacies returns indexed pharmacies within radiusKm of center,
// closest first.
func (a *PharmacyIndexAdapter) NearbyPharmacies(ctx context.Context, center entities.Coordinates, radiusKm float64, limit int) ([]entities.Place, error) {
	if limit <= 0 {
		limit = 10
	}
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("location:(%f, %f, %f km)", center.Latitude, center.Longitude, radiusKm)),
		SortBy:   pointer.String(fmt.Sprintf("location(%f, %f):asc", center.Latitude, center.Longitude)),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.PharmaciesCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search pharmacies: %w", err)
	}

	places := []entities.Place{}
	if result.Hits == nil {
		return places, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if place, ok := placeFromDocument(*hit.Document); ok {
			places = append(places, place)
		}
	}
	return places, nil
}

func pharmacyDocument(city string, place entities.Place, now time.Time) map[string]interface{} {
	doc := map[string]interface{}{
		"id":         place.ID,
		"name":       place.Name,
		"address":    place.Address,
		"city":       city,
		"location":   []float64{place.Coordinates.Latitude, place.Coordinates.Longitude},
		"updated_at": now.Unix(),
	}
	if place.Contact != "" {
		doc["contact"] = place.Contact
	}
	if place.Hours != "" {
		doc["hours"] = place.Hours
	}
	if place.Website != nil && *place.Website != "" {
		doc["website"] = *place.Website
	}
	return doc
}

// placeFromDocument rebuilds a Place from a search hit. Documents without
// an id, name or usable location are skipped.
func placeFromDocument(doc map[string]interface{}) (entities.Place, bool) {
	id, _ := doc["id"].(string)
	name, _ := doc["name"].(string)
	if id == "" || name == "" {
		return entities.Place{}, false
	}

	loc, ok := doc["location"].([]interface{})
	if !ok || len(loc) != 2 {
		return entities.Place{}, false
	}
	lat, latOK := loc[0].(float64)
	lng, lngOK := loc[1].(float64)
	if !latOK || !lngOK {
		return entities.Place{}, false
	}

	place := entities.Place{
		ID:          id,
		Name:        name,
		Coordinates: entities.Coordinates{Latitude: lat, Longitude: lng},
	}
	place.Address, _ = doc["address"].(string)
	place.Contact, _ = doc["contact"].(string)
	place.Hours, _ = doc["hours"].(string)
	if site, ok := doc["website"].(string); ok && site != "" {
		place.Website = &site
	}
	return place, true
}
