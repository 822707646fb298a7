package routes

import (
	"net/http"

	"github.com/vendorshub/backend/internal/api/handlers"
	"github.com/vendorshub/backend/internal/api/loaders"
	"github.com/vendorshub/backend/internal/api/middleware"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
)

// Handlers groups the HTTP handlers the router mounts
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Listing *handlers.ListingHandler
	Vendor  *handlers.VendorHandler
	Review  *handlers.ReviewHandler
	SSE     *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux      *http.ServeMux
	handlers Handlers

	auth            *middleware.Auth
	cacheMiddleware *middleware.CacheMiddleware
	users           repositories.UserRepository
	metrics         *observability.Metrics
	allowedOrigins  []string
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	h Handlers,
	auth *middleware.Auth,
	cacheMiddleware *middleware.CacheMiddleware,
	users repositories.UserRepository,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		auth:            auth,
		cacheMiddleware: cacheMiddleware,
		users:           users,
		metrics:         metrics,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.handlers.Health.Health)
	r.mux.HandleFunc("GET /api/meta", r.handlers.Listing.Meta)

	// Accounts
	r.mux.HandleFunc("POST /api/auth/register", r.handlers.Auth.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.handlers.Auth.Login)

	// Directory
	r.mux.HandleFunc("GET /api/vendors", r.handlers.Listing.ListVendors)
	r.mux.HandleFunc("GET /api/vendors/suggest", r.handlers.Listing.Suggest)
	r.mux.HandleFunc("GET /api/vendors/{id}", r.handlers.Review.GetVendor)
	r.mux.HandleFunc("POST /api/vendors/{id}/reviews", r.auth.Require(r.handlers.Review.SubmitReview))

	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /api/vendors/{id}/events", r.handlers.SSE.StreamVendorEvents)
	}

	// Owner
	r.mux.HandleFunc("POST /api/vendor", r.auth.Require(r.handlers.Vendor.CreateVendor))
	r.mux.HandleFunc("PUT /api/vendor", r.auth.Require(r.handlers.Vendor.EditVendor))
	r.mux.HandleFunc("GET /api/vendor/dashboard", r.auth.Require(r.handlers.Vendor.Dashboard))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = loaders.Middleware(r.users)(handler)
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
