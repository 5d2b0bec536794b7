package geolocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

func newGazetteerProvider(t *testing.T) *GazetteerProvider {
	t.Helper()
	g := catalog.DefaultGazetteer()
	r, err := services.NewLocationResolver(g, "Addis Ababa")
	require.NoError(t, err)
	return NewGazetteerProvider(g, r, catalog.DefaultPharmacyDataset())
}

func TestGazetteerProvider_Geocode(t *testing.T) {
	p := newGazetteerProvider(t)

	coords, err := p.Geocode(context.Background(), "bahir")
	require.NoError(t, err)
	assert.Equal(t, 11.5742, coords.Latitude)

	_, err = p.Geocode(context.Background(), "qqzxnonsense")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestGazetteerProvider_ReverseGeocode(t *testing.T) {
	p := newGazetteerProvider(t)

	addr, err := p.ReverseGeocode(context.Background(), 12.6, 37.45)
	require.NoError(t, err)
	assert.Equal(t, "Gondar", addr.City)
	assert.Equal(t, "Gondar, Ethiopia", addr.FormattedAddress)
}

func TestGazetteerProvider_GetNearbyPlaces(t *testing.T) {
	p := newGazetteerProvider(t)
	hawassa := entities.Coordinates{Latitude: 7.0621, Longitude: 38.4764}

	all, err := p.GetNearbyPlaces(context.Background(), hawassa, 0, "pharmacy")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].DistanceKm, all[i].DistanceKm)
	}

	nearby, err := p.GetNearbyPlaces(context.Background(), hawassa, 1, "pharmacy")
	require.NoError(t, err)
	assert.Less(t, len(nearby), 4)

	none, err := p.GetNearbyPlaces(context.Background(), hawassa, 5, "hospital")
	require.NoError(t, err)
	assert.Empty(t, none)

	jimma, err := p.GetNearbyPlaces(context.Background(), entities.Coordinates{Latitude: 7.67, Longitude: 36.83}, 5, "")
	require.NoError(t, err)
	assert.Empty(t, jimma)
}

func TestGazetteerProvider_NearbyPharmacies(t *testing.T) {
	p := newGazetteerProvider(t)
	assert.Equal(t, entities.PlaceOriginCurated, p.Name())

	base := entities.Coordinates{Latitude: 7.07, Longitude: 38.48}
	places, err := p.NearbyPharmacies(context.Background(), base, 3, 2)
	require.NoError(t, err)
	require.Len(t, places, 2)
	for _, place := range places {
		d := utils.HaversineKm(base.Latitude, base.Longitude, place.Coordinates.Latitude, place.Coordinates.Longitude)
		assert.InDelta(t, d, place.DistanceKm, 0.01)
	}
	assert.LessOrEqual(t, places[0].DistanceKm, places[1].DistanceKm)

	// Nearest city is Addis Ababa, far outside the radius.
	far, err := p.NearbyPharmacies(context.Background(), entities.Coordinates{Latitude: 9.9, Longitude: 38.0}, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, far)
}
