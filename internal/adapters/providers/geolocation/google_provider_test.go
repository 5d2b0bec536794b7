package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
)

type mapCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func TestGoogleProvider_GeocodeUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "Hawassa", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Hawassa, Ethiopia","geometry":{"location":{"lat":7.06,"lng":38.47}}}]}`))
	}))
	defer srv.Close()

	g := NewGoogleGeolocationProviderWithOptions("test-key", newMapCache(), srv.URL, srv.Client())

	first, err := g.Geocode(context.Background(), "Hawassa")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), " hawassa ")
	require.NoError(t, err)

	assert.Equal(t, &entities.Coordinates{Latitude: 7.06, Longitude: 38.47}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGoogleProvider_GeocodeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	}))
	defer srv.Close()

	g := NewGoogleGeolocationProviderWithOptions("test-key", nil, srv.URL, srv.Client())

	_, err := g.Geocode(context.Background(), "Hawassa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")

	_, err = g.Geocode(context.Background(), "  ")
	assert.Error(t, err)

	noKey := NewGoogleGeolocationProviderWithOptions("", nil, srv.URL, srv.Client())
	_, err = noKey.Geocode(context.Background(), "Hawassa")
	assert.Error(t, err)
}

func TestGoogleProvider_ReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("latlng"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Piazza, Hawassa, Ethiopia",
			"address_components":[{"long_name":"Hawassa","types":["locality"]},{"long_name":"Sidama","types":["administrative_area_level_1"]},{"long_name":"Ethiopia","types":["country"]}],
			"geometry":{"location":{"lat":7.06,"lng":38.47}}}]}`))
	}))
	defer srv.Close()

	g := NewGoogleGeolocationProviderWithOptions("test-key", nil, srv.URL, srv.Client())
	addr, err := g.ReverseGeocode(context.Background(), 7.06, 38.47)
	require.NoError(t, err)
	assert.Equal(t, "Hawassa", addr.City)
	assert.Equal(t, "Sidama", addr.State)
	assert.Equal(t, "Ethiopia", addr.Country)
}

func TestGoogleProvider_NearbyPharmacies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "pharmacy", r.URL.Query().Get("type"))
		assert.Equal(t, "2000", r.URL.Query().Get("radius"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"place_id":"a","name":"Tabor Pharmacy","vicinity":"Main Road","business_status":"OPERATIONAL","geometry":{"location":{"lat":7.05,"lng":38.47}},"opening_hours":{"open_now":true}},
			{"place_id":"b","name":"Closed For Good","vicinity":"Old Road","business_status":"CLOSED_PERMANENTLY","geometry":{"location":{"lat":7.06,"lng":38.48}}},
			{"place_id":"c","name":"Lake Pharmacy","vicinity":"Lake Road","geometry":{"location":{"lat":7.04,"lng":38.46}}}
		]}`))
	}))
	defer srv.Close()

	g := NewGoogleGeolocationProviderWithOptions("test-key", nil, srv.URL, srv.Client())
	assert.Equal(t, entities.PlaceOriginGoogle, g.Name())

	places, err := g.NearbyPharmacies(context.Background(), entities.Coordinates{Latitude: 7.06, Longitude: 38.47}, 2, 5)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Tabor Pharmacy", places[0].Name)
	assert.Equal(t, "Open now", places[0].Hours)
	assert.Equal(t, "Lake Pharmacy", places[1].Name)
	assert.Empty(t, places[1].Hours)

	limited, err := g.NearbyPharmacies(context.Background(), entities.Coordinates{Latitude: 7.06, Longitude: 38.47}, 2, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGoogleProvider_NearbyZeroResultsAndFailure(t *testing.T) {
	status := http.StatusOK
	body := `{"status":"ZERO_RESULTS","results":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	g := NewGoogleGeolocationProviderWithOptions("test-key", nil, srv.URL, srv.Client())

	places, err := g.NearbyPharmacies(context.Background(), entities.Coordinates{}, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, places)

	status = http.StatusInternalServerError
	_, err = g.NearbyPharmacies(context.Background(), entities.Coordinates{}, 1, 5)
	assert.Error(t, err)
}
