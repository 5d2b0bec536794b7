package handlers

import (
	"context"
	"net/http"

	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
	"github.com/yab-g4u/IDA-sub000/internal/application/services"
)

// PharmacyFinder is the service behind the pharmacy endpoint.
type PharmacyFinder interface {
	Find(ctx context.Context, req services.FindPharmaciesRequest) (*services.FindPharmaciesResponse, error)
}

// PharmacyHandler handles pharmacy lookups
type PharmacyHandler struct {
	finder PharmacyFinder
}

func NewPharmacyHandler(finder PharmacyFinder) *PharmacyHandler {
	return &PharmacyHandler{finder: finder}
}

type pharmacyQuery struct {
	Location string   `schema:"location"`
	Lat      *float64 `schema:"lat"`
	Lng      *float64 `schema:"lng"`
}

// FindPharmacies handles GET /api/pharmacies?location=&lat=&lng=
func (h *PharmacyHandler) FindPharmacies(w http.ResponseWriter, r *http.Request) {
	var q pharmacyQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resp, err := h.finder.Find(r.Context(), services.FindPharmaciesRequest{
		Location:  q.Location,
		Latitude:  q.Lat,
		Longitude: q.Lng,
		UserID:    middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resolution": resp.Resolution,
		"source":     resp.Source,
		"places":     resp.Places,
		"count":      len(resp.Places),
	})
}
