package geolocation

import (
	"context"
	"fmt"

	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

// GazetteerProvider is the offline geolocation provider. It answers from the
// built-in city list and curated pharmacy listings and never calls out.
type GazetteerProvider struct {
	gazetteer  *catalog.Gazetteer
	resolver   *services.LocationResolver
	pharmacies *catalog.PharmacyDataset
}

var (
	_ providers.GeolocationProvider = (*GazetteerProvider)(nil)
	_ providers.PlaceSource         = (*GazetteerProvider)(nil)
)

func NewGazetteerProvider(gazetteer *catalog.Gazetteer, resolver *services.LocationResolver, pharmacies *catalog.PharmacyDataset) *GazetteerProvider {
	return &GazetteerProvider{
		gazetteer:  gazetteer,
		resolver:   resolver,
		pharmacies: pharmacies,
	}
}

// Geocode resolves address against the gazetteer. Unlike the finder, it
// reports unrecognised input instead of defaulting.
func (p *GazetteerProvider) Geocode(_ context.Context, address string) (*entities.Coordinates, error) {
	res := p.resolver.Resolve(address)
	if !res.Matched() {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no known place matches %q", address))
	}
	coords := res.Coordinates
	return &coords, nil
}

// ReverseGeocode labels the point with the nearest gazetteer city.
func (p *GazetteerProvider) ReverseGeocode(_ context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	point := entities.Coordinates{Latitude: lat, Longitude: lon}
	city, ok := p.gazetteer.Nearest(point)
	if !ok {
		return nil, apperrors.NewNotFoundError("gazetteer is empty")
	}
	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%s, %s", city.Name, catalog.Country),
		City:             city.Name,
		Country:          catalog.Country,
		Coordinates:      point,
	}, nil
}

// GetNearbyPlaces returns curated pharmacies of the nearest city that lie
// within radiusKm of center. Other place types have no offline data.
func (p *GazetteerProvider) GetNearbyPlaces(_ context.Context, center entities.Coordinates, radiusKm float64, placeType string) ([]entities.Place, error) {
	if placeType != "" && placeType != "pharmacy" {
		return []entities.Place{}, nil
	}
	city, ok := p.gazetteer.Nearest(center)
	if !ok {
		return []entities.Place{}, nil
	}
	listing, ok := p.pharmacies.Lookup(city.Name)
	if !ok {
		return []entities.Place{}, nil
	}

	out := make([]entities.Place, 0, len(listing))
	for _, place := range listing {
		d := utils.HaversineKm(center.Latitude, center.Longitude, place.Coordinates.Latitude, place.Coordinates.Longitude)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		place.DistanceKm = utils.RoundTo(d, 2)
		out = append(out, place)
	}
	entities.SortPlacesByDistance(out)
	return out, nil
}

func (p *GazetteerProvider) Name() entities.PlaceOrigin {
	return entities.PlaceOriginCurated
}

// NearbyPharmacies implements providers.PlaceSource over the curated
// listings, so the finder can answer offline before it synthesizes.
func (p *GazetteerProvider) NearbyPharmacies(ctx context.Context, center entities.Coordinates, radiusKm float64, limit int) ([]entities.Place, error) {
	places, err := p.GetNearbyPlaces(ctx, center, radiusKm, "pharmacy")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}
