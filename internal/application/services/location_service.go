package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

// LocationService exposes place resolution, suggestions and geocoding.
type LocationService struct {
	resolver  *LocationResolver
	gazetteer *catalog.Gazetteer
	geo       providers.GeolocationProvider
}

func NewLocationService(resolver *LocationResolver, gazetteer *catalog.Gazetteer, geo providers.GeolocationProvider) *LocationService {
	return &LocationService{resolver: resolver, gazetteer: gazetteer, geo: geo}
}

// Resolve maps input, or an explicit lat/lng pair, to a base coordinate.
func (s *LocationService) Resolve(input string, lat, lng *float64) (Resolution, error) {
	coords, err := explicitCoordinates(lat, lng)
	if err != nil {
		return Resolution{}, err
	}
	return s.resolver.ResolveWithCoordinates(input, coords), nil
}

// Suggest returns gazetteer names containing input.
func (s *LocationService) Suggest(input string, limit int) []string {
	return Suggest(input, s.resolver.Names(), limit)
}

// Nearest labels c with the closest known city.
func (s *LocationService) Nearest(c entities.Coordinates) (catalog.City, error) {
	city, ok := s.gazetteer.Nearest(c)
	if !ok {
		return catalog.City{}, apperrors.NewNotFoundError("no cities are configured")
	}
	return city, nil
}

// Geocode looks up an address with the configured geolocation provider.
func (s *LocationService) Geocode(ctx context.Context, address string) (*entities.Coordinates, error) {
	if strings.TrimSpace(address) == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	coords, err := s.geo.Geocode(ctx, address)
	if err != nil {
		return nil, asExternal("geocoding failed", err)
	}
	return coords, nil
}

// ReverseGeocode looks up the address of a point. When the provider itself
// fails the point is labelled with the nearest known city instead.
func (s *LocationService) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	coords, err := explicitCoordinates(&lat, &lon)
	if err != nil {
		return nil, err
	}
	addr, err := s.geo.ReverseGeocode(ctx, lat, lon)
	if err == nil {
		return addr, nil
	}
	err = asExternal("reverse geocoding failed", err)
	if !apperrors.IsType(err, apperrors.ErrorTypeExternal) {
		return nil, err
	}

	city, nerr := s.Nearest(*coords)
	if nerr != nil {
		return nil, err
	}
	log.Warn().Err(err).Str("city", city.Name).Msg("Reverse geocoding failed, using nearest city")
	return &providers.GeocodedAddress{
		FormattedAddress: city.Name + ", " + catalog.Country,
		City:             city.Name,
		Country:          catalog.Country,
		Coordinates:      *coords,
	}, nil
}

// asExternal keeps typed errors and marks anything else as a provider
// failure.
func asExternal(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewExternalError(message, err)
}
