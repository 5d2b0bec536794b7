package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v2/typesense"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	tsclient "github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/typesense"
)

func TestPharmacyDocument(t *testing.T) {
	site := "https://tabor.example"
	place := entities.Place{
		ID:          "hws-002",
		Name:        "Tabor Pharmacy",
		Address:     "Main Road, Hawassa",
		Hours:       "8:00 AM - 10:00 PM",
		Website:     &site,
		Coordinates: entities.Coordinates{Latitude: 7.0558, Longitude: 38.4712},
	}

	doc := pharmacyDocument("Hawassa", place, time.Unix(1700000000, 0))

	assert.Equal(t, "hws-002", doc["id"])
	assert.Equal(t, "Hawassa", doc["city"])
	assert.Equal(t, []float64{7.0558, 38.4712}, doc["location"])
	assert.Equal(t, int64(1700000000), doc["updated_at"])
	assert.Equal(t, site, doc["website"])
	assert.NotContains(t, doc, "contact")
}

func TestPlaceFromDocument(t *testing.T) {
	place, ok := placeFromDocument(map[string]interface{}{
		"id":       "add-001",
		"name":     "Bole Medhanialem Pharmacy",
		"address":  "Bole Road",
		"contact":  "+251 11 661 2233",
		"location": []interface{}{9.0, 38.78},
	})
	require.True(t, ok)
	assert.Equal(t, "Bole Medhanialem Pharmacy", place.Name)
	assert.Equal(t, entities.Coordinates{Latitude: 9.0, Longitude: 38.78}, place.Coordinates)
	assert.Nil(t, place.Website)

	_, ok = placeFromDocument(map[string]interface{}{"id": "x", "name": "No Location"})
	assert.False(t, ok)

	_, ok = placeFromDocument(map[string]interface{}{"name": "No ID", "location": []interface{}{1.0, 2.0}})
	assert.False(t, ok)
}

func TestNearbyPharmacies_QueriesGeoFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/pharmacies/documents/search", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("filter_by"), "location:("))
		assert.Contains(t, r.URL.Query().Get("sort_by"), ":asc")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"found":          2,
			"out_of":         2,
			"page":           1,
			"search_time_ms": 1,
			"hits": []map[string]interface{}{
				{"document": map[string]interface{}{"id": "hws-001", "name": "Hawassa Referral Pharmacy", "address": "Piazza", "location": []float64{7.065, 38.4791}}},
				{"document": map[string]interface{}{"id": "broken", "name": "Broken"}},
			},
		})
	}))
	defer srv.Close()

	client := tsclient.NewClientFromTypesense(typesense.NewClient(
		typesense.WithServer(srv.URL),
		typesense.WithAPIKey("test"),
	))
	adapter := NewPharmacyIndexAdapter(client)
	assert.Equal(t, entities.PlaceOriginTypesense, adapter.Name())

	places, err := adapter.NearbyPharmacies(context.Background(), entities.Coordinates{Latitude: 7.06, Longitude: 38.47}, 3, 5)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "hws-001", places[0].ID)
}
