// Package webui serves debugging pages that dump the loaded network.
package webui

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"metrograph.onebusaway.org/internal/app"
	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/utils"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"statistics", "lines", "stations", "rides", "transfers", "catalog"}

type WebUI struct {
	*app.Application
}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

// debugPagePolicy allows the inline stylesheet of the page and nothing else.
const debugPagePolicy = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';"

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Security-Policy", debugPagePolicy)
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func edgesOfType(g *graph.Graph, t graph.EdgeType) []graph.Edge {
	var edges []graph.Edge
	for _, e := range g.Edges() {
		if e.Type == t {
			edges = append(edges, e)
		}
	}
	return edges
}

// catalogData dumps the SQLite catalog. ?line= lists the catalog rows of a
// line and ?station= one row.
func (webUI *WebUI) catalogData(r *http.Request) (interface{}, string) {
	ctx := r.Context()
	catalog := webUI.GtfsManager.Catalog()
	query := r.URL.Query()

	if id := query.Get("station"); id != "" {
		if err := utils.ValidateID(id); err != nil {
			return map[string]string{"error": err.Error()}, "Catalog - Station"
		}
		station, err := catalog.GetStation(ctx, id)
		if err != nil {
			return map[string]string{"error": err.Error()}, "Catalog - Station"
		}
		return station, "Catalog - Station " + id
	}
	if line := query.Get("line"); line != "" {
		if err := utils.ValidateID(line); err != nil {
			return map[string]string{"error": err.Error()}, "Catalog - Line"
		}
		stations, err := catalog.ListStationsForLine(ctx, line)
		if err != nil {
			return map[string]string{"error": err.Error()}, "Catalog - Line"
		}
		return stations, "Catalog - Line " + line
	}

	diag, err := catalog.Diagnostics(ctx)
	if err != nil {
		return map[string]string{"error": err.Error()}, "Catalog"
	}
	return diag, "Catalog"
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	g := webUI.GtfsManager.Graph()

	switch dataType {
	case "statistics":
		data = webUI.GtfsManager.Statistics()
		title = "Network - Statistics"
	case "lines":
		data = g.Lines()
		title = "Network - Lines"
	case "stations":
		data = g.Stations()
		title = "Network - Stations"
	case "rides":
		data = edgesOfType(g, graph.EdgeRide)
		title = "Network - Ride Edges"
	case "transfers":
		data = edgesOfType(g, graph.EdgeTransfer)
		title = "Network - Transfer Edges"
	case "catalog":
		data, title = webUI.catalogData(r)
	default:
		data = map[string]string{
			"error": "Please use one of the following: " + strings.Join(dataTypes, ", ") + ".",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
