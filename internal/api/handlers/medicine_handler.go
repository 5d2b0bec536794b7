package handlers

import (
	"context"
	"net/http"

	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// MedicineLookup is the service behind the medicine endpoints.
type MedicineLookup interface {
	Describe(ctx context.Context, name, userID string) (*entities.MedicineInfo, error)
	Suggest(input string, limit int) []string
}

// MedicineHandler handles medicine information requests
type MedicineHandler struct {
	medicines MedicineLookup
}

func NewMedicineHandler(medicines MedicineLookup) *MedicineHandler {
	return &MedicineHandler{medicines: medicines}
}

type medicineQuery struct {
	Name string `schema:"name"`
}

// SearchMedicine handles GET /api/medicines/search?name=
func (h *MedicineHandler) SearchMedicine(w http.ResponseWriter, r *http.Request) {
	var q medicineQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	info, err := h.medicines.Describe(r.Context(), q.Name, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}

// SuggestMedicines handles GET /api/medicines/suggest?q=&limit=
func (h *MedicineHandler) SuggestMedicines(w http.ResponseWriter, r *http.Request) {
	var q suggestQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	suggestions := h.medicines.Suggest(q.Q, q.Limit)
	respondWithJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions, Count: len(suggestions)})
}
