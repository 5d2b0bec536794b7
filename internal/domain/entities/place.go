package entities

import "slices"

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Place is a point of interest returned by a nearby search. Distance is
// always in kilometers from the search's base coordinate.
type Place struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Contact     string      `json:"contact,omitempty"`
	Hours       string      `json:"hours,omitempty"`
	DistanceKm  float64     `json:"distance_km"`
	Coordinates Coordinates `json:"coordinates"`
	Website     *string     `json:"website,omitempty"`
}

// PlaceOrigin names where a result set came from.
type PlaceOrigin string

const (
	PlaceOriginTypesense PlaceOrigin = "typesense"
	PlaceOriginGoogle    PlaceOrigin = "google"
	PlaceOriginCurated   PlaceOrigin = "curated"
	PlaceOriginSynthetic PlaceOrigin = "synthetic"
	PlaceOriginCache     PlaceOrigin = "cache"
)

// SortPlacesByDistance orders places nearest first. Ties keep their input
// order.
func SortPlacesByDistance(places []Place) {
	slices.SortStableFunc(places, func(a, b Place) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})
}
