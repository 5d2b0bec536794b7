package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/observability"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

// pharmacyCellPrecision is the geohash length used as the cache cell. Six
// characters is roughly a 1.2 km x 0.6 km cell.
const pharmacyCellPrecision = 6

// FindPharmaciesRequest is a pharmacy lookup. Latitude and Longitude must be
// given together; when present they replace text matching.
type FindPharmaciesRequest struct {
	Location  string
	Latitude  *float64
	Longitude *float64
	UserID    string
}

// FindPharmaciesResponse carries the resolved base, where the list came
// from and the places ordered by distance.
type FindPharmaciesResponse struct {
	Resolution Resolution           `json:"resolution"`
	Source     entities.PlaceOrigin `json:"source"`
	Places     []entities.Place     `json:"places"`
}

// PharmacyFinderConfig tunes PharmacyFinderService.
type PharmacyFinderConfig struct {
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
	RadiusKm        float64
	Limit           int
	Synthetic       CountRange
}

// DefaultPharmacyFinderConfig matches the service defaults in config.
func DefaultPharmacyFinderConfig() PharmacyFinderConfig {
	return PharmacyFinderConfig{
		ProviderTimeout: 10 * time.Second,
		CacheTTL:        10 * time.Minute,
		RadiusKm:        3,
		Limit:           10,
		Synthetic:       DefaultCountRange,
	}
}

// PharmacyFinderService answers "pharmacies near X". It asks each place
// source in turn and falls back to synthesized results, so Find only fails
// on invalid input.
type PharmacyFinderService struct {
	resolver    *LocationResolver
	synthesizer *PlaceSynthesizer
	sources     []providers.PlaceSource
	cache       providers.CacheProvider
	history     *SearchHistoryService
	cfg         PharmacyFinderConfig
}

// NewPharmacyFinderService creates a finder. cache and history may be nil.
func NewPharmacyFinderService(
	resolver *LocationResolver,
	synthesizer *PlaceSynthesizer,
	sources []providers.PlaceSource,
	cache providers.CacheProvider,
	history *SearchHistoryService,
	cfg PharmacyFinderConfig,
) *PharmacyFinderService {
	def := DefaultPharmacyFinderConfig()
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = def.ProviderTimeout
	}
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = def.RadiusKm
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	return &PharmacyFinderService{
		resolver:    resolver,
		synthesizer: synthesizer,
		sources:     sources,
		cache:       cache,
		history:     history,
		cfg:         cfg,
	}
}

// Find resolves the request to a base coordinate and returns nearby
// pharmacies.
func (s *PharmacyFinderService) Find(ctx context.Context, req FindPharmaciesRequest) (*FindPharmaciesResponse, error) {
	coords, err := explicitCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "PharmacyFinderService.Find")
	defer span.End()

	res := s.resolver.ResolveWithCoordinates(req.Location, coords)
	observability.SetSpanAttributes(span,
		attribute.String("location.canonical", res.CanonicalName),
		attribute.String("location.tier", string(res.Tier)),
	)

	resp := &FindPharmaciesResponse{Resolution: res}
	defer s.track(req, res)

	key := pharmacyCacheKey(res.Coordinates)
	if places, ok := s.cached(ctx, key, res.Coordinates); ok {
		resp.Source = entities.PlaceOriginCache
		resp.Places = places
		return resp, nil
	}

	for _, src := range s.sources {
		places, err := s.query(ctx, src, res.Coordinates)
		if err != nil {
			log.Warn().Err(err).Str("source", string(src.Name())).Msg("Place source failed, trying next")
			continue
		}
		if len(places) == 0 {
			continue
		}
		s.store(ctx, key, places)
		resp.Source = src.Name()
		resp.Places = places
		return resp, nil
	}

	places, origin := s.synthesizer.Synthesize(res.Coordinates, s.synthesisName(res), s.cfg.Synthetic)
	if origin == entities.PlaceOriginCurated && res.Tier == TierExplicit {
		withDistances(places, res.Coordinates)
	}
	observability.RecordFallback(ctx, "pharmacy", string(origin))
	resp.Source = origin
	resp.Places = places
	return resp, nil
}

// synthesisName picks the city whose curated list may stand in for real
// results. An explicit base only borrows the nearest city's list when it lies
// inside the search radius of that city.
func (s *PharmacyFinderService) synthesisName(res Resolution) string {
	if res.Tier != TierExplicit {
		return res.CanonicalName
	}
	city, ok := s.resolver.gazetteer.Lookup(res.CanonicalName)
	if !ok {
		return ""
	}
	d := utils.HaversineKm(res.Coordinates.Latitude, res.Coordinates.Longitude, city.Coordinates.Latitude, city.Coordinates.Longitude)
	if d > s.cfg.RadiusKm {
		return ""
	}
	return res.CanonicalName
}

func (s *PharmacyFinderService) query(ctx context.Context, src providers.PlaceSource, base entities.Coordinates) ([]entities.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	places, err := src.NearbyPharmacies(ctx, base, s.cfg.RadiusKm, s.cfg.Limit)
	observability.RecordProviderCall(ctx, string(src.Name()), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	withDistances(places, base)
	return places, nil
}

func (s *PharmacyFinderService) cached(ctx context.Context, key string, base entities.Coordinates) ([]entities.Place, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Pharmacy cache read failed")
		}
		return nil, false
	}
	var places []entities.Place
	if err := json.Unmarshal(raw, &places); err != nil || len(places) == 0 {
		return nil, false
	}
	// A cell covers many bases, so distances are recomputed from this one.
	withDistances(places, base)
	return places, true
}

func (s *PharmacyFinderService) store(ctx context.Context, key string, places []entities.Place) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(places)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, int(s.cfg.CacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Pharmacy cache write failed")
	}
}

func (s *PharmacyFinderService) track(req FindPharmaciesRequest, res Resolution) {
	if s.history == nil || req.UserID == "" {
		return
	}
	query := strings.TrimSpace(req.Location)
	if query == "" {
		query = fmt.Sprintf("%.5f, %.5f", res.Coordinates.Latitude, res.Coordinates.Longitude)
	}
	s.history.Track(req.UserID, entities.SearchTypePharmacy, query, res.DisplayName())
}

func pharmacyCacheKey(c entities.Coordinates) string {
	return "pharmacies:v1:" + geohash.Encode(c.Latitude, c.Longitude)[:pharmacyCellPrecision]
}

func withDistances(places []entities.Place, base entities.Coordinates) {
	for i := range places {
		d := utils.HaversineKm(base.Latitude, base.Longitude, places[i].Coordinates.Latitude, places[i].Coordinates.Longitude)
		places[i].DistanceKm = utils.RoundTo(d, 2)
	}
	entities.SortPlacesByDistance(places)
}

// explicitCoordinates validates an optional lat/lng pair.
func explicitCoordinates(lat, lng *float64) (*entities.Coordinates, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, apperrors.NewValidationError("lat and lng must be provided together")
	}
	if *lat < -90 || *lat > 90 {
		return nil, apperrors.NewValidationError("lat must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return nil, apperrors.NewValidationError("lng must be between -180 and 180")
	}
	return &entities.Coordinates{Latitude: *lat, Longitude: *lng}, nil
}
