package restapi

import (
	"fmt"
	"net/http"

	"metrograph.onebusaway.org/internal/models"
	"metrograph.onebusaway.org/internal/utils"
)

// stationsHandler lists every station, or those of one line with ?line=.
func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	g := api.GtfsManager.Graph()
	lineID := r.URL.Query().Get("line")

	references := models.NewEmptyReferences()
	if lineID != "" {
		if err := utils.ValidateID(lineID); err != nil {
			api.validationErrorResponse(w, r, map[string][]string{"line": {err.Error()}})
			return
		}
		line, ok := api.lineReference(g, lineID)
		if !ok {
			api.sendNotFound(w, r, fmt.Sprintf("unknown line %q", lineID))
			return
		}
		references.AddLine(line)
	} else {
		references.Lines = api.lineModels(g)
	}

	stations := []models.Station{}
	for _, s := range g.Stations() {
		if lineID == "" || s.Line == lineID {
			stations = append(stations, stationModel(s))
		}
	}
	api.sendResponse(w, r, models.NewListResponse(stations, references))
}

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	g := api.GtfsManager.Graph()
	station, ok := g.Station(id)
	if !ok {
		api.sendNotFound(w, r, fmt.Sprintf("unknown station %q", id))
		return
	}

	entry := models.StationEntry{
		Station:  stationModel(station),
		Outgoing: []models.Edge{},
	}
	ids := []string{id}
	for _, e := range g.Outgoing(id) {
		entry.Outgoing = append(entry.Outgoing, edgeModel(e))
		ids = append(ids, e.To)
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.referencesFor(g, ids)))
}

// searchStationsHandler matches ?pattern= against the start of station
// names.
func (api *RestAPI) searchStationsHandler(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	matches, err := api.GtfsManager.SearchStations(pattern)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"pattern": {err.Error()}})
		return
	}

	stations := make([]models.Station, 0, len(matches))
	ids := make([]string, 0, len(matches))
	for _, s := range matches {
		stations = append(stations, stationModel(s))
		ids = append(ids, s.ID)
	}
	g := api.GtfsManager.Graph()
	api.sendResponse(w, r, models.NewListResponse(stations, api.referencesFor(g, ids)))
}
