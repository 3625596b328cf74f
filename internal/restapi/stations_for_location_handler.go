package restapi

import (
	"net/http"

	"metrograph.onebusaway.org/internal/models"
	"metrograph.onebusaway.org/internal/utils"
)

const (
	defaultSearchRadius = 1000.0
	defaultMaxCount     = 100
)

func (api *RestAPI) stationsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var fieldErrors map[string][]string
	lat, fieldErrors := utils.ParseFloatParam(query, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(query, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(query, "radius", fieldErrors)
	maxCount, fieldErrors := utils.ParseIntParam(query, "maxCount", fieldErrors)
	if query.Get("lat") == "" {
		fieldErrors["lat"] = append(fieldErrors["lat"], `Missing required field "lat".`)
	}
	if query.Get("lon") == "" {
		fieldErrors["lon"] = append(fieldErrors["lon"], `Missing required field "lon".`)
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if fieldErrors := utils.ValidateLocationParams(lat, lon, radius, maxCount); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if radius == 0 {
		radius = defaultSearchRadius
	}
	if maxCount == 0 {
		maxCount = defaultMaxCount
	}

	// Fetch one extra row to detect truncation.
	nearby, err := api.GtfsManager.Catalog().NearestStations(r.Context(), lat, lon, radius, maxCount+1)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	limitExceeded := len(nearby) > maxCount
	if limitExceeded {
		nearby = nearby[:maxCount]
	}

	g := api.GtfsManager.Graph()
	stations := make([]models.StationWithDistance, 0, len(nearby))
	ids := make([]string, 0, len(nearby))
	for _, row := range nearby {
		s, ok := g.Station(row.ID)
		if !ok {
			continue
		}
		stations = append(stations, models.StationWithDistance{
			Station:  stationModel(s),
			Distance: row.Distance,
		})
		ids = append(ids, s.ID)
	}
	api.sendResponse(w, r, models.NewListResponseWithLimit(stations, api.referencesFor(g, ids), limitExceeded))
}
