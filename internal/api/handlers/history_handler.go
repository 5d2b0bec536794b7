package handlers

import (
	"context"
	"net/http"

	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

// SearchHistory is the service behind the history endpoints.
type SearchHistory interface {
	List(ctx context.Context, userID string, searchType entities.SearchType, limit int) ([]*entities.SearchHistoryEntry, error)
	Clear(ctx context.Context, userID string) (int64, error)
}

// HistoryHandler serves the signed-in user's search history.
type HistoryHandler struct {
	history SearchHistory
}

func NewHistoryHandler(history SearchHistory) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type historyQuery struct {
	Type  string `schema:"type"`
	Limit int    `schema:"limit"`
}

// ListHistory handles GET /api/history?type=&limit=
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to view search history"))
		return
	}

	var q historyQuery
	if err := decodeQuery(r, &q); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	entries, err := h.history.List(r.Context(), userID, entities.SearchType(q.Type), q.Limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// ClearHistory handles DELETE /api/history
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to clear search history"))
		return
	}

	deleted, err := h.history.Clear(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
