package presentation

import (
	"time"

	polyline "github.com/twpayne/go-polyline"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/routing"
	"metrograph.onebusaway.org/internal/utils"
)

// Leg is a maximal run of steps on one line, or a single transfer. In
// scheduled results a change of trip on the same line starts a new leg.
type Leg struct {
	Transfer  bool
	Line      string
	TripID    string
	Color     string
	Stations  []graph.Station
	Cost      time.Duration
	Wait      time.Duration
	Departure time.Duration
	Heading   string
}

func (l Leg) From() graph.Station { return l.Stations[0] }
func (l Leg) To() graph.Station   { return l.Stations[len(l.Stations)-1] }

// Legs groups the steps of result. The leg costs add up to TotalCost.
func Legs(result *routing.PathResult, palette *Palette) []Leg {
	legs := []Leg{}
	if result == nil || len(result.Steps) == 0 {
		return legs
	}

	from := result.Stations[0]
	for i, step := range result.Steps {
		to := result.Stations[i+1]
		if n := len(legs); n > 0 && continues(legs[n-1], step, result.Scheduled) {
			leg := &legs[n-1]
			leg.Stations = append(leg.Stations, to)
			leg.Cost += step.Cost
			leg.Wait += step.Wait
		} else {
			leg := Leg{
				Transfer: step.Edge.Type == graph.EdgeTransfer,
				Line:     step.Edge.Line,
				TripID:   step.Edge.TripID,
				Color:    palette.EdgeColor(step.Edge),
				Stations: []graph.Station{from, to},
				Cost:     step.Cost,
				Wait:     step.Wait,
			}
			if !leg.Transfer && result.Scheduled {
				leg.Departure = step.Edge.Departure
			}
			legs = append(legs, leg)
		}
		from = to
	}

	for i := range legs {
		a, b := legs[i].From(), legs[i].To()
		legs[i].Heading = utils.CompassDirection(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return legs
}

func continues(leg Leg, step routing.Step, scheduled bool) bool {
	if leg.Transfer || step.Edge.Type == graph.EdgeTransfer {
		return false
	}
	if leg.Line != step.Edge.Line {
		return false
	}
	return !scheduled || leg.TripID == step.Edge.TripID
}

// Annotation is a station label placed on a map. Align is the horizontal
// alignment of the text relative to the station.
type Annotation struct {
	Station graph.Station
	Text    string
	Align   string
}

// Annotations labels the origin, the destination and both ends of every
// transfer of result, in path order and without repeating a station.
func Annotations(result *routing.PathResult) []Annotation {
	annotations := []Annotation{}
	if result == nil || len(result.Stations) == 0 {
		return annotations
	}
	seen := make(map[string]bool)
	add := func(s graph.Station, align string) {
		if seen[s.ID] {
			return
		}
		seen[s.ID] = true
		annotations = append(annotations, Annotation{Station: s, Text: Label(s), Align: align})
	}

	add(result.Stations[0], "right")
	for i, step := range result.Steps {
		if step.Edge.Type == graph.EdgeTransfer {
			add(result.Stations[i], "right")
			add(result.Stations[i+1], "left")
		}
	}
	add(result.Stations[len(result.Stations)-1], "left")
	return annotations
}

// EncodePolyline encodes the station coordinates in the Google polyline
// format.
func EncodePolyline(stations []graph.Station) string {
	coords := make([][]float64, 0, len(stations))
	for _, s := range stations {
		coords = append(coords, []float64{s.Lat, s.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
