package handlers

import (
	"context"
	"net/http"

	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

// LocationLookup is the service behind the location and geocoding
// endpoints.
type LocationLookup interface {
	Resolve(input string, lat, lng *float64) (services.Resolution, error)
	Suggest(input string, limit int) []string
	Geocode(ctx context.Context, address string) (*entities.Coordinates, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error)
}

// LocationHandler handles place resolution and geolocation endpoints.
type LocationHandler struct {
	locations LocationLookup
}

func NewLocationHandler(locations LocationLookup) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type resolveQuery struct {
	Q   string   `schema:"q"`
	Lat *float64 `schema:"lat"`
	Lng *float64 `schema:"lng"`
}

type resolveResponse struct {
	services.Resolution
	Matched bool `json:"matched"`
}

// Resolve handles GET /api/locations/resolve?q=&lat=&lng=
func (h *LocationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var q resolveQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	res, err := h.locations.Resolve(q.Q, q.Lat, q.Lng)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolveResponse{Resolution: res, Matched: res.Matched()})
}

// Suggest handles GET /api/locations/suggest?q=&limit=
func (h *LocationHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var q suggestQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	suggestions := h.locations.Suggest(q.Q, q.Limit)
	respondWithJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions, Count: len(suggestions)})
}

type geocodeQuery struct {
	Address string `schema:"address"`
}

// Geocode handles GET /api/geocode?address=
func (h *LocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var q geocodeQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	coords, err := h.locations.Geocode(r.Context(), q.Address)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": q.Address,
		"lat":     coords.Latitude,
		"lon":     coords.Longitude,
	})
}

type reverseGeocodeQuery struct {
	Lat *float64 `schema:"lat"`
	Lon *float64 `schema:"lon"`
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=&lon=
func (h *LocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	var q reverseGeocodeQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if q.Lat == nil || q.Lon == nil {
		respondWithAppError(w, r, apperrors.NewValidationError("lat and lon parameters are required"))
		return
	}

	address, err := h.locations.ReverseGeocode(r.Context(), *q.Lat, *q.Lon)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, address)
}
