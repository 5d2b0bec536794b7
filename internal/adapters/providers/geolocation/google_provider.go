package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
)

const (
	googleMapsBaseURL      = "https://maps.googleapis.com/maps/api"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultReverseCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
	googleRegion           = "et"
)

// GoogleGeolocationProvider implements GeolocationProvider and PlaceSource on
// the Google Maps Geocoding and Places APIs.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

var (
	_ providers.GeolocationProvider = (*GoogleGeolocationProvider)(nil)
	_ providers.PlaceSource         = (*GoogleGeolocationProvider)(nil)
)

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string, cache providers.CacheProvider) *GoogleGeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, cache, googleMapsBaseURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding the API root and
// HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = googleMapsBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

func (g *GoogleGeolocationProvider) Name() entities.PlaceOrigin {
	return entities.PlaceOriginGoogle
}

// Geocode converts an address to coordinates.
func (g *GoogleGeolocationProvider) Geocode(ctx context.Context, address string) (*entities.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:v3:geocode:" + hashKey(strings.ToLower(trimmed))
	if coords, ok := g.cachedCoordinates(ctx, cacheKey); ok {
		return coords, nil
	}

	var resp googleGeocodeResponse
	if err := g.get(ctx, "/geocode/json", url.Values{"address": {trimmed}, "region": {googleRegion}}, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus("geocode", resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no results for address")
	}

	loc := resp.Results[0].Geometry.Location
	coords := &entities.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}
	g.store(ctx, cacheKey, coords, defaultGeocodeCacheTTL)
	return coords, nil
}

// ReverseGeocode converts coordinates to an address.
func (g *GoogleGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	cacheKey := "geo:v3:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lon))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var address providers.GeocodedAddress
			if err := json.Unmarshal(cached, &address); err == nil && address.FormattedAddress != "" {
				return &address, nil
			}
		}
	}

	var resp googleGeocodeResponse
	if err := g.get(ctx, "/geocode/json", url.Values{"latlng": {fmt.Sprintf("%f,%f", lat, lon)}}, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus("reverse geocode", resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no results for coordinates")
	}

	result := resp.Results[0]
	address := &providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		City:             component(result.AddressComponents, "locality", "administrative_area_level_2"),
		State:            component(result.AddressComponents, "administrative_area_level_1"),
		Country:          component(result.AddressComponents, "country"),
		Coordinates: entities.Coordinates{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}
	g.store(ctx, cacheKey, address, defaultReverseCacheTTL)
	return address, nil
}

// GetNearbyPlaces runs a Places Nearby Search for placeType.
func (g *GoogleGeolocationProvider) GetNearbyPlaces(ctx context.Context, center entities.Coordinates, radiusKm float64, placeType string) ([]entities.Place, error) {
	radiusM := int(radiusKm * 1000)
	if radiusM <= 0 {
		radiusM = 3000
	}

	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", center.Latitude, center.Longitude)},
		"radius":   {strconv.Itoa(radiusM)},
	}
	if placeType != "" {
		params.Set("type", placeType)
	}

	var resp googlePlacesNearbyResponse
	if err := g.get(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "ZERO_RESULTS" {
		return []entities.Place{}, nil
	}
	if err := checkStatus("places nearby search", resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	places := make([]entities.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.BusinessStatus != "" && r.BusinessStatus != "OPERATIONAL" {
			continue
		}
		place := entities.Place{
			ID:      r.PlaceID,
			Name:    r.Name,
			Address: r.Vicinity,
			Coordinates: entities.Coordinates{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
		}
		if r.OpeningHours != nil {
			if r.OpeningHours.OpenNow {
				place.Hours = "Open now"
			} else {
				place.Hours = "Closed now"
			}
		}
		places = append(places, place)
	}
	return places, nil
}

// NearbyPharmacies implements providers.PlaceSource.
func (g *GoogleGeolocationProvider) NearbyPharmacies(ctx context.Context, center entities.Coordinates, radiusKm float64, limit int) ([]entities.Place, error) {
	places, err := g.GetNearbyPlaces(ctx, center, radiusKm, "pharmacy")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

func (g *GoogleGeolocationProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if g.apiKey == "" {
		return fmt.Errorf("google maps api key is required")
	}

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (g *GoogleGeolocationProvider) cachedCoordinates(ctx context.Context, key string) (*entities.Coordinates, bool) {
	if g.cache == nil {
		return nil, false
	}
	cached, err := g.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return nil, false
	}
	var coords entities.Coordinates
	if err := json.Unmarshal(cached, &coords); err != nil || (coords.Latitude == 0 && coords.Longitude == 0) {
		return nil, false
	}
	return &coords, true
}

func (g *GoogleGeolocationProvider) store(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	if g.cache == nil {
		return
	}
	if payload, err := json.Marshal(value); err == nil {
		_ = g.cache.Set(ctx, key, payload, ttlSeconds)
	}
}

func checkStatus(op, status, message string) error {
	if status == "OK" {
		return nil
	}
	if message != "" {
		return fmt.Errorf("%s failed: %s - %s", op, status, message)
	}
	return fmt.Errorf("%s failed: %s", op, status)
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func component(components []googleAddressComponent, primary string, fallback ...string) string {
	for _, want := range append([]string{primary}, fallback...) {
		for _, comp := range components {
			if containsType(comp.Types, want) {
				return comp.LongName
			}
		}
	}
	return ""
}

func containsType(types []string, target string) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          googleGeometry           `json:"geometry"`
}

type googleAddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googlePlacesNearbyResponse struct {
	Status       string                     `json:"status"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	Results      []googlePlacesNearbyResult `json:"results"`
}

type googlePlacesNearbyResult struct {
	PlaceID        string         `json:"place_id"`
	Name           string         `json:"name"`
	Vicinity       string         `json:"vicinity"`
	BusinessStatus string         `json:"business_status"`
	Geometry       googleGeometry `json:"geometry"`
	OpeningHours   *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours,omitempty"`
}
