package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// instrument counts responses per route pattern.
func (api *RestAPI) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		api.Metrics.ObserveHTTPRequest(route, wrapped.statusCode)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	handle := func(path string, h handlerFunc) {
		router.Handler(http.MethodGet, path, api.instrument(path, validateAPIKey(api, h)))
	}

	handle("/api/where/current-time.json", api.currentTimeHandler)
	handle("/api/where/lines.json", api.linesHandler)
	handle("/api/where/stations.json", api.stationsHandler)
	handle("/api/where/station/:id", api.stationHandler)
	handle("/api/where/search-stations.json", api.searchStationsHandler)
	handle("/api/where/stations-for-location.json", api.stationsForLocationHandler)
	handle("/api/where/path.json", api.pathHandler)
	handle("/api/where/path.geojson", api.pathGeoJSONHandler)
	handle("/api/where/reachable/:id", api.reachableHandler)
	handle("/api/where/network.geojson", api.networkGeoJSONHandler)

	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}
}
