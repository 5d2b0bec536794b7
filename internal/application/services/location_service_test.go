package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*entities.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coordinates), args.Error(1)
}

func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.GeocodedAddress), args.Error(1)
}

func (m *MockGeolocationProvider) GetNearbyPlaces(ctx context.Context, center entities.Coordinates, radiusKm float64, placeType string) ([]entities.Place, error) {
	args := m.Called(ctx, center, radiusKm, placeType)
	return args.Get(0).([]entities.Place), args.Error(1)
}

func newLocationService(t *testing.T, geo providers.GeolocationProvider) *services.LocationService {
	t.Helper()
	resolver, gazetteer := newTestResolver(t)
	return services.NewLocationService(resolver, gazetteer, geo)
}

func TestLocationService_Resolve(t *testing.T) {
	svc := newLocationService(t, new(MockGeolocationProvider))

	res, err := svc.Resolve("dire town", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dire Dawa", res.CanonicalName)
	assert.Equal(t, services.TierWord, res.Tier)

	lat := 9.0
	_, err = svc.Resolve("", &lat, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestLocationService_SuggestAndNearest(t *testing.T) {
	svc := newLocationService(t, new(MockGeolocationProvider))

	assert.Equal(t, []string{"Addis Ababa"}, svc.Suggest("addis", 5))

	city, err := svc.Nearest(entities.Coordinates{Latitude: 11.6, Longitude: 37.4})
	require.NoError(t, err)
	assert.Equal(t, "Bahir Dar", city.Name)
}

func TestLocationService_Geocode(t *testing.T) {
	geo := new(MockGeolocationProvider)
	geo.On("Geocode", mock.Anything, "Piazza, Hawassa").Return(&entities.Coordinates{Latitude: 7.05, Longitude: 38.47}, nil)
	geo.On("Geocode", mock.Anything, "nowhere").Return(nil, errors.New("ZERO_RESULTS"))
	svc := newLocationService(t, geo)

	coords, err := svc.Geocode(context.Background(), "Piazza, Hawassa")
	require.NoError(t, err)
	assert.Equal(t, 7.05, coords.Latitude)

	_, err = svc.Geocode(context.Background(), "nowhere")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	_, err = svc.Geocode(context.Background(), " ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestLocationService_ReverseGeocode(t *testing.T) {
	geo := new(MockGeolocationProvider)
	geo.On("ReverseGeocode", mock.Anything, 9.03, 38.74).Return(&providers.GeocodedAddress{City: "Addis Ababa"}, nil)
	geo.On("ReverseGeocode", mock.Anything, 1.0, 1.0).Return(nil, apperrors.NewNotFoundError("no city"))
	svc := newLocationService(t, geo)

	addr, err := svc.ReverseGeocode(context.Background(), 9.03, 38.74)
	require.NoError(t, err)
	assert.Equal(t, "Addis Ababa", addr.City)

	_, err = svc.ReverseGeocode(context.Background(), 1.0, 1.0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.ReverseGeocode(context.Background(), 95, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestLocationService_ReverseGeocodeFallsBackToNearestCity(t *testing.T) {
	geo := new(MockGeolocationProvider)
	geo.On("ReverseGeocode", mock.Anything, 7.07, 38.48).Return(nil, errors.New("timeout"))
	geo.On("ReverseGeocode", mock.Anything, 11.6, 37.4).Return(nil, apperrors.NewExternalError("quota exceeded", nil))
	svc := newLocationService(t, geo)

	addr, err := svc.ReverseGeocode(context.Background(), 7.07, 38.48)
	require.NoError(t, err)
	assert.Equal(t, "Hawassa", addr.City)
	assert.Equal(t, "Hawassa, Ethiopia", addr.FormattedAddress)
	assert.Equal(t, entities.Coordinates{Latitude: 7.07, Longitude: 38.48}, addr.Coordinates)

	addr, err = svc.ReverseGeocode(context.Background(), 11.6, 37.4)
	require.NoError(t, err)
	assert.Equal(t, "Bahir Dar", addr.City)
	geo.AssertExpectations(t)
}
