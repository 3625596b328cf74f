package restapi

import (
	"time"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/models"
	"metrograph.onebusaway.org/internal/presentation"
	"metrograph.onebusaway.org/internal/utils"
)

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func stationModel(s graph.Station) models.Station {
	return models.NewStation(s.ID, s.Name, s.Line, presentation.Label(s), s.Lat, s.Lon, s.X, s.Y)
}

func edgeModel(e graph.Edge) models.Edge {
	edge := models.Edge{
		To:   e.To,
		Type: e.Type.String(),
		Cost: seconds(e.Cost),
	}
	if e.Type == graph.EdgeRide {
		edge.Line = e.Line
		edge.TripID = e.TripID
		edge.Departure = utils.FormatClock(e.Departure)
	}
	return edge
}

// lineModels describes every line of g, with station counts, in line order.
func (api *RestAPI) lineModels(g *graph.Graph) []models.Line {
	counts := make(map[string]int)
	for _, s := range g.Stations() {
		counts[s.Line]++
	}
	palette := api.LinePalette()
	lines := make([]models.Line, 0, len(g.Lines()))
	for _, id := range g.Lines() {
		lines = append(lines, models.NewLine(
			id,
			utils.ExtractLineNumber(id),
			utils.ExtractLineMode(id),
			palette.Color(id),
			counts[id],
		))
	}
	return lines
}

// lineReference returns the line model of id, if g has such a line.
func (api *RestAPI) lineReference(g *graph.Graph, id string) (models.Line, bool) {
	for _, l := range api.lineModels(g) {
		if l.ID == id {
			return l, true
		}
	}
	return models.Line{}, false
}

// referencesFor collects the stations named by ids and their lines.
func (api *RestAPI) referencesFor(g *graph.Graph, ids []string) models.ReferencesModel {
	refs := models.NewEmptyReferences()
	lines := make(map[string]models.Line)
	for _, l := range api.lineModels(g) {
		lines[l.ID] = l
	}
	for _, id := range ids {
		s, ok := g.Station(id)
		if !ok {
			continue
		}
		refs.AddStation(stationModel(s))
		if l, ok := lines[s.Line]; ok {
			refs.AddLine(l)
		}
	}
	return refs
}
