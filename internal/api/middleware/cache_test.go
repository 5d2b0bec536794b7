package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yab-g4u/IDA-sub000/internal/adapters/cache"
	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
)

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"suggestions":["Adama"]}`))
	})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestCacheMiddleware_CachesConfiguredRoutes(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(time.Minute, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK))

	first := serve(h, http.MethodGet, "/api/locations/suggest?q=ad&limit=3")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(h, http.MethodGet, "/api/locations/suggest?limit=3&q=ad")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestCacheMiddleware_SkipsOtherRequests(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(time.Minute, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK))

	serve(h, http.MethodGet, "/api/pharmacies?location=Adama")
	serve(h, http.MethodGet, "/api/pharmacies?location=Adama")
	serve(h, http.MethodDelete, "/api/locations/suggest?q=ad")
	serve(h, http.MethodDelete, "/api/locations/suggest?q=ad")

	assert.Equal(t, 4, calls)
}

func TestCacheMiddleware_DoesNotCacheErrors(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(time.Minute, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusBadGateway))

	serve(h, http.MethodGet, "/api/geocode?address=x")
	rec := serve(h, http.MethodGet, "/api/geocode?address=x")

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}
