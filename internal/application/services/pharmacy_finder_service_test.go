package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/adapters/cache"
	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

type MockPlaceSource struct {
	mock.Mock
	origin entities.PlaceOrigin
}

func (m *MockPlaceSource) Name() entities.PlaceOrigin { return m.origin }

func (m *MockPlaceSource) NearbyPharmacies(ctx context.Context, center entities.Coordinates, radiusKm float64, limit int) ([]entities.Place, error) {
	args := m.Called(ctx, center, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Place), args.Error(1)
}

// blockingSource waits for its context to end.
type blockingSource struct{}

func (blockingSource) Name() entities.PlaceOrigin { return entities.PlaceOriginGoogle }

func (blockingSource) NearbyPharmacies(ctx context.Context, _ entities.Coordinates, _ float64, _ int) ([]entities.Place, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var adama = entities.Coordinates{Latitude: 8.54, Longitude: 39.27}

func adamaPlaces() []entities.Place {
	return []entities.Place{
		{ID: "far", Name: "Far Pharmacy", Coordinates: entities.Coordinates{Latitude: 8.56, Longitude: 39.27}},
		{ID: "near", Name: "Near Pharmacy", Coordinates: entities.Coordinates{Latitude: 8.541, Longitude: 39.27}},
	}
}

func newFinder(t *testing.T, sources []providers.PlaceSource, c providers.CacheProvider, history *services.SearchHistoryService, timeout time.Duration) *services.PharmacyFinderService {
	t.Helper()
	resolver, _ := newTestResolver(t)
	cfg := services.DefaultPharmacyFinderConfig()
	if timeout > 0 {
		cfg.ProviderTimeout = timeout
	}
	synth := services.NewPlaceSynthesizer(catalog.DefaultPharmacyDataset(), nil)
	return services.NewPharmacyFinderService(resolver, synth, sources, c, history, cfg)
}

func TestPharmacyFinder_FirstSuccessfulSourceWins(t *testing.T) {
	failing := &MockPlaceSource{origin: entities.PlaceOriginTypesense}
	failing.On("NearbyPharmacies", mock.Anything, adama, 3.0, 10).Return(nil, errors.New("index offline"))
	google := &MockPlaceSource{origin: entities.PlaceOriginGoogle}
	google.On("NearbyPharmacies", mock.Anything, adama, 3.0, 10).Return(adamaPlaces(), nil)

	finder := newFinder(t, []providers.PlaceSource{failing, google}, nil, nil, 0)
	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "adama"})
	require.NoError(t, err)

	assert.Equal(t, entities.PlaceOriginGoogle, resp.Source)
	assert.Equal(t, "Adama", resp.Resolution.CanonicalName)
	require.Len(t, resp.Places, 2)
	assert.Equal(t, "near", resp.Places[0].ID)
	assert.InDelta(t, 0.11, resp.Places[0].DistanceKm, 0.01)
	assert.InDelta(t, 2.22, resp.Places[1].DistanceKm, 0.02)
	failing.AssertExpectations(t)
	google.AssertExpectations(t)
}

func TestPharmacyFinder_EmptySourceFallsThrough(t *testing.T) {
	empty := &MockPlaceSource{origin: entities.PlaceOriginTypesense}
	empty.On("NearbyPharmacies", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]entities.Place{}, nil)

	finder := newFinder(t, []providers.PlaceSource{empty}, nil, nil, 0)
	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "Hawassa"})
	require.NoError(t, err)

	assert.Equal(t, entities.PlaceOriginCurated, resp.Source)
	assert.Equal(t, "Hawassa Referral Pharmacy", resp.Places[0].Name)
}

func TestPharmacyFinder_ProviderTimeoutFallsBackToSynthesis(t *testing.T) {
	finder := newFinder(t, []providers.PlaceSource{blockingSource{}}, nil, nil, 20*time.Millisecond)

	start := time.Now()
	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "Jimma"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, entities.PlaceOriginSynthetic, resp.Source)
	assert.GreaterOrEqual(t, len(resp.Places), 3)
	assert.LessOrEqual(t, len(resp.Places), 5)
}

func TestPharmacyFinder_NoSourcesUnknownPlaceUsesDefaultCity(t *testing.T) {
	finder := newFinder(t, nil, nil, nil, 0)
	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "qqzx"})
	require.NoError(t, err)

	assert.Equal(t, services.TierDefault, resp.Resolution.Tier)
	assert.Equal(t, "Addis Ababa", resp.Resolution.CanonicalName)
	assert.Equal(t, entities.PlaceOriginCurated, resp.Source)
	assert.NotEmpty(t, resp.Places)
}

func TestPharmacyFinder_CachesProviderResults(t *testing.T) {
	google := &MockPlaceSource{origin: entities.PlaceOriginGoogle}
	google.On("NearbyPharmacies", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(adamaPlaces(), nil).Once()

	mem := cache.NewMemoryAdapter(time.Minute, time.Minute)
	finder := newFinder(t, []providers.PlaceSource{google}, mem, nil, 0)

	first, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "Adama"})
	require.NoError(t, err)
	assert.Equal(t, entities.PlaceOriginGoogle, first.Source)

	second, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "adama"})
	require.NoError(t, err)
	assert.Equal(t, entities.PlaceOriginCache, second.Source)
	assert.Equal(t, first.Places, second.Places)

	google.AssertNumberOfCalls(t, "NearbyPharmacies", 1)
}

func TestPharmacyFinder_SynthesisIsNotCached(t *testing.T) {
	mem := cache.NewMemoryAdapter(time.Minute, time.Minute)
	finder := newFinder(t, nil, mem, nil, 0)

	_, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "Jimma"})
	require.NoError(t, err)
	assert.Zero(t, mem.ItemCount())
}

func TestPharmacyFinder_ExplicitCoordinates(t *testing.T) {
	lat, lng := 7.07, 38.48
	finder := newFinder(t, nil, nil, nil, 0)

	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "ignored", Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	assert.Equal(t, services.TierExplicit, resp.Resolution.Tier)
	assert.Equal(t, "Hawassa", resp.Resolution.CanonicalName)
	assert.Equal(t, entities.Coordinates{Latitude: lat, Longitude: lng}, resp.Resolution.Coordinates)
}

func TestPharmacyFinder_ExplicitCoordinatesFarFromCityAreSynthesizedAroundBase(t *testing.T) {
	// Nearest city is Addis Ababa, roughly 126 km away.
	lat, lng := 9.9, 38.0
	finder := newFinder(t, nil, nil, nil, 0)

	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	assert.Equal(t, "Addis Ababa", resp.Resolution.CanonicalName)
	assert.Equal(t, entities.PlaceOriginSynthetic, resp.Source)
	require.NotEmpty(t, resp.Places)
	for _, p := range resp.Places {
		d := utils.HaversineKm(lat, lng, p.Coordinates.Latitude, p.Coordinates.Longitude)
		assert.Less(t, d, 2.0, p.Name)
		assert.Less(t, p.DistanceKm, 3.0, p.Name)
	}
}

func TestPharmacyFinder_ExplicitCoordinatesNearCityUseCuratedWithRealDistances(t *testing.T) {
	lat, lng := 7.07, 38.48
	finder := newFinder(t, nil, nil, nil, 0)

	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	assert.Equal(t, entities.PlaceOriginCurated, resp.Source)
	require.NotEmpty(t, resp.Places)
	for i, p := range resp.Places {
		d := utils.HaversineKm(lat, lng, p.Coordinates.Latitude, p.Coordinates.Longitude)
		assert.InDelta(t, d, p.DistanceKm, 0.01, p.Name)
		if i > 0 {
			assert.GreaterOrEqual(t, p.DistanceKm, resp.Places[i-1].DistanceKm)
		}
	}
}

func TestPharmacyFinder_CuratedDistancesKeptForNamedCity(t *testing.T) {
	finder := newFinder(t, nil, nil, nil, 0)

	resp, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "hawassa"})
	require.NoError(t, err)
	require.Equal(t, entities.PlaceOriginCurated, resp.Source)
	assert.Equal(t, 0.4, resp.Places[0].DistanceKm)
}

func TestPharmacyFinder_InvalidCoordinates(t *testing.T) {
	finder := newFinder(t, nil, nil, nil, 0)
	lat, bad := 7.0, 200.0

	_, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Latitude: &lat})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = finder.Find(context.Background(), services.FindPharmaciesRequest{Latitude: &lat, Longitude: &bad})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestPharmacyFinder_TracksHistoryForSignedInUsers(t *testing.T) {
	repo := new(MockSearchHistoryRepository)
	repo.On("Record", mock.Anything, mock.MatchedBy(func(e *entities.SearchHistoryEntry) bool {
		return e.Type == entities.SearchTypePharmacy && e.Query == "bahir" && e.LocationLabel == "Bahir Dar"
	})).Return(nil).Once()
	history := services.NewSearchHistoryService(repo)

	finder := newFinder(t, nil, nil, history, 0)
	_, err := finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "bahir", UserID: "user-1"})
	require.NoError(t, err)
	_, err = finder.Find(context.Background(), services.FindPharmaciesRequest{Location: "bahir"})
	require.NoError(t, err)
	history.Wait()

	repo.AssertExpectations(t)
}
