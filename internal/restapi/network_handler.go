package restapi

import (
	"net/http"

	"metrograph.onebusaway.org/internal/presentation"
)

func (api *RestAPI) networkGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	g := api.GtfsManager.Graph()
	api.sendGeoJSON(w, r, presentation.NetworkFeatures(g, api.LinePalette()))
}
