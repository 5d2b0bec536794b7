package providers

import (
	"context"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// GeolocationProvider defines the interface for geolocation services
type GeolocationProvider interface {
	// Geocode converts an address to coordinates
	Geocode(ctx context.Context, address string) (*entities.Coordinates, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)

	// GetNearbyPlaces finds places of placeType within radiusKm of center
	GetNearbyPlaces(ctx context.Context, center entities.Coordinates, radiusKm float64, placeType string) ([]entities.Place, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string               `json:"formatted_address"`
	City             string               `json:"city"`
	State            string               `json:"state,omitempty"`
	Country          string               `json:"country"`
	Coordinates      entities.Coordinates `json:"coordinates"`
}
