package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/models"
	"metrograph.onebusaway.org/internal/presentation"
	"metrograph.onebusaway.org/internal/routing"
	"metrograph.onebusaway.org/internal/utils"
)

type pathQuery struct {
	from, to string
	options  []routing.QueryOption
}

// parsePathQuery reads from, to, departAt, budget and trace. It writes a
// 400 response and returns false when a parameter is invalid.
func (api *RestAPI) parsePathQuery(w http.ResponseWriter, r *http.Request) (pathQuery, bool) {
	query := r.URL.Query()
	q := pathQuery{from: query.Get("from"), to: query.Get("to")}

	fieldErrors := make(map[string][]string)
	for key, id := range map[string]string{"from": q.from, "to": q.to} {
		if err := utils.ValidateID(id); err != nil {
			fieldErrors[key] = append(fieldErrors[key], err.Error())
		}
	}
	departAt, scheduled, fieldErrors := utils.ParseClockParameter(query, "departAt", fieldErrors)
	budget, fieldErrors := utils.ParseIntParam(query, "budget", fieldErrors)
	if budget < 0 {
		fieldErrors["budget"] = append(fieldErrors["budget"], "budget must be non-negative")
	}
	trace := false
	if v := query.Get("trace"); v != "" {
		var err error
		if trace, err = strconv.ParseBool(v); err != nil {
			fieldErrors["trace"] = append(fieldErrors["trace"], `Invalid field value for field "trace".`)
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return q, false
	}

	if query.Get("budget") == "" {
		budget = api.Config.ExpansionBudget
	}
	q.options = append(q.options, routing.WithExpansionBudget(budget))
	if scheduled {
		q.options = append(q.options, routing.WithDepartAt(departAt))
	}
	if trace {
		q.options = append(q.options, routing.WithTrace())
	}
	return q, true
}

// runPath answers q and writes the error response when the query fails. A
// nil result with true means the destination is unreachable.
func (api *RestAPI) runPath(w http.ResponseWriter, r *http.Request, network gtfs.Network, q pathQuery) (*routing.PathResult, bool) {
	result, err := network.FindPath(q.from, q.to, q.options...)
	switch {
	case err == nil:
		return result, true
	case errors.Is(err, routing.ErrUnknownStation):
		api.sendNotFound(w, r, err.Error())
	case errors.Is(err, routing.ErrNotFound):
		return nil, true
	case errors.Is(err, routing.ErrBudgetExhausted):
		api.sendResponse(w, r, models.NewResponse(http.StatusUnprocessableEntity, nil, err.Error()))
	default:
		api.serverErrorResponse(w, r, err)
	}
	return nil, false
}

func (api *RestAPI) pathHandler(w http.ResponseWriter, r *http.Request) {
	q, ok := api.parsePathQuery(w, r)
	if !ok {
		return
	}
	network := api.GtfsManager.Network()
	result, ok := api.runPath(w, r, network, q)
	if !ok {
		return
	}

	entry := api.pathEntry(q, result)
	ids := append([]string{q.from, q.to}, entry.StationIDs...)
	ids = append(ids, entry.Trace...)
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.referencesFor(network.Graph, ids)))
}

func (api *RestAPI) pathGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	q, ok := api.parsePathQuery(w, r)
	if !ok {
		return
	}
	result, ok := api.runPath(w, r, api.GtfsManager.Network(), q)
	if !ok {
		return
	}
	if result == nil {
		api.sendNotFound(w, r, routing.ErrNotFound.Error())
		return
	}

	fc := presentation.PathFeatures(result, api.LinePalette())
	fc.Features = append(fc.Features, presentation.TraceFeatures(result.Trace).Features...)
	api.sendGeoJSON(w, r, fc)
}

func (api *RestAPI) pathEntry(q pathQuery, result *routing.PathResult) models.PathEntry {
	entry := models.PathEntry{
		FromStationID: q.from,
		ToStationID:   q.to,
		StationIDs:    []string{},
		Legs:          []models.Leg{},
	}
	if result == nil {
		return entry
	}

	entry.Found = true
	entry.Scheduled = result.Scheduled
	entry.TotalCost = seconds(result.TotalCost)
	entry.Expanded = result.Expanded
	if result.Scheduled {
		entry.DepartAt = utils.FormatClock(result.DepartAt)
		entry.ArriveAt = utils.FormatClock(result.DepartAt + result.TotalCost)
	}
	for _, s := range result.Stations {
		entry.StationIDs = append(entry.StationIDs, s.ID)
	}
	for _, leg := range presentation.Legs(result, api.LinePalette()) {
		entry.Legs = append(entry.Legs, legModel(leg, result.Scheduled))
	}
	entry.Polyline = models.Polyline{
		Length: len(result.Stations),
		Points: presentation.EncodePolyline(result.Stations),
	}
	if result.Trace != nil {
		entry.Trace = stationIDs(result.Trace)
	}
	return entry
}

func legModel(leg presentation.Leg, scheduled bool) models.Leg {
	m := models.Leg{
		Transfer:      leg.Transfer,
		Line:          leg.Line,
		TripID:        leg.TripID,
		Color:         leg.Color,
		Heading:       leg.Heading,
		FromStationID: leg.From().ID,
		ToStationID:   leg.To().ID,
		StationIDs:    stationIDs(leg.Stations),
		Cost:          seconds(leg.Cost),
		Wait:          seconds(leg.Wait),
	}
	if scheduled && !leg.Transfer {
		m.Departure = utils.FormatClock(leg.Departure)
	}
	return m
}

func stationIDs(stations []graph.Station) []string {
	ids := make([]string, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID)
	}
	return ids
}
