package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"

	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

// queryDecoder is safe for concurrent use; it caches struct metadata.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeQuery fills dst from the URL query using its `schema` tags.
func decodeQuery(r *http.Request, dst interface{}) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return apperrors.NewValidationError("invalid query parameters: " + err.Error())
	}
	return nil
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to a status code. Messages of internal and
// upstream failures are not exposed.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	switch {
	case !errors.As(err, &appErr), appErr.Type == apperrors.ErrorTypeInternal:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondWithError(w, status, "internal server error")
	case appErr.Type == apperrors.ErrorTypeExternal:
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream provider failed")
		respondWithError(w, status, appErr.Message)
	default:
		respondWithError(w, status, appErr.Message)
	}
}

type suggestQuery struct {
	Q     string `schema:"q"`
	Limit int    `schema:"limit"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
}
