// Package restapi serves the transit graph and routing queries over HTTP in
// the OneBusAway response envelope.
package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"metrograph.onebusaway.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Handler returns the API routes wrapped in the middleware chain: request
// logging, security headers, compression and rate limiting.
func (api *RestAPI) Handler() http.Handler {
	return api.WithMiddleware(api.RoutesHandler())
}

// RoutesHandler returns the rate-limited API routes without the outer
// middleware, for mounting inside another router that WithMiddleware wraps.
func (api *RestAPI) RoutesHandler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	if api.rateLimiter != nil {
		handler = api.rateLimiter.Handler(handler)
	}
	return handler
}

// WithMiddleware adds request logging, security headers and compression.
func (api *RestAPI) WithMiddleware(handler http.Handler) http.Handler {
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.Logger)(handler)
}

// Shutdown releases background resources held by the middleware.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
