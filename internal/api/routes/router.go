package routes

import (
	"net/http"

	"github.com/yab-g4u/IDA-sub000/internal/api/handlers"
	"github.com/yab-g4u/IDA-sub000/internal/api/middleware"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/observability"
)

// Options holds the cross-cutting settings of the HTTP stack.
type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	// Compress enables gzip and Cache-Control headers.
	Compress bool
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pharmacyHandler *handlers.PharmacyHandler
	medicineHandler *handlers.MedicineHandler
	locationHandler *handlers.LocationHandler
	historyHandler  *handlers.HistoryHandler
	healthHandler   *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	opts            Options
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	pharmacyHandler *handlers.PharmacyHandler,
	medicineHandler *handlers.MedicineHandler,
	locationHandler *handlers.LocationHandler,
	historyHandler *handlers.HistoryHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	opts Options,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		pharmacyHandler: pharmacyHandler,
		medicineHandler: medicineHandler,
		locationHandler: locationHandler,
		historyHandler:  historyHandler,
		healthHandler:   healthHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		opts:            opts,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Pharmacy endpoints
	r.mux.HandleFunc("GET /api/pharmacies", r.pharmacyHandler.FindPharmacies)

	// Medicine endpoints
	r.mux.HandleFunc("GET /api/medicines/search", r.medicineHandler.SearchMedicine)
	r.mux.HandleFunc("GET /api/medicines/suggest", r.medicineHandler.SuggestMedicines)

	// Location endpoints
	r.mux.HandleFunc("GET /api/locations/resolve", r.locationHandler.Resolve)
	r.mux.HandleFunc("GET /api/locations/suggest", r.locationHandler.Suggest)
	r.mux.HandleFunc("GET /api/geocode", r.locationHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.locationHandler.ReverseGeocode)

	// History endpoints
	r.mux.HandleFunc("GET /api/history", r.historyHandler.ListHistory)
	r.mux.HandleFunc("DELETE /api/history", r.historyHandler.ClearHistory)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	if r.opts.Compress {
		handler = middleware.ResponseOptimization(handler)
	}

	handler = middleware.Auth(r.opts.JWTSecret)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(r.opts.AllowedOrigins)(handler)

	return handler
}
