package providers

import (
	"context"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// PlaceSource is a data source that can list pharmacies around a point.
// Implementations return places with coordinates filled in; the caller
// computes distances.
type PlaceSource interface {
	Name() entities.PlaceOrigin
	NearbyPharmacies(ctx context.Context, center entities.Coordinates, radiusKm float64, limit int) ([]entities.Place, error)
}
