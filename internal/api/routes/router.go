package routes

import (
	"net/http"

	"github.com/lumamarket/LocalMarketDiscovery/internal/api/handlers"
	"github.com/lumamarket/LocalMarketDiscovery/internal/api/middleware"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	itemHandler        *handlers.ItemHandler
	geolocationHandler *handlers.GeolocationHandler
	locationHandler    *handlers.LocationHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	itemHandler *handlers.ItemHandler,
	geolocationHandler *handlers.GeolocationHandler,
	locationHandler *handlers.LocationHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		searchHandler:      searchHandler,
		itemHandler:        itemHandler,
		geolocationHandler: geolocationHandler,
		locationHandler:    locationHandler,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoint
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	// Item endpoints
	r.mux.HandleFunc("GET /api/items/{id}", r.itemHandler.GetItem)
	r.mux.HandleFunc("POST /api/items", r.itemHandler.CreateItem)
	r.mux.HandleFunc("DELETE /api/items/{id}", r.itemHandler.DeleteItem)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)

	// Location permission endpoints
	r.mux.HandleFunc("GET /api/location/permission", r.locationHandler.GetPermission)
	r.mux.HandleFunc("POST /api/location/permission/reset", r.locationHandler.ResetPermission)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so error responses also carry CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
