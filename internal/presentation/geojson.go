package presentation

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/routing"
)

func point(s graph.Station) orb.Point {
	return orb.Point{s.Lon, s.Lat}
}

func stationFeature(s graph.Station, kind string) *geojson.Feature {
	f := geojson.NewFeature(point(s))
	f.ID = s.ID
	f.Properties["kind"] = kind
	f.Properties["name"] = s.Name
	f.Properties["line"] = s.Line
	f.Properties["label"] = Label(s)
	f.Properties["x"] = s.X
	f.Properties["y"] = s.Y
	return f
}

type segmentKey struct {
	from, to string
	kind     graph.EdgeType
}

// NetworkFeatures renders every station as a point and every connected
// station pair as a line. Parallel rides of different trips collapse into
// one segment carrying the smallest cost.
func NetworkFeatures(g *graph.Graph, palette *Palette) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range g.Stations() {
		f := stationFeature(s, "station")
		f.Properties["color"] = DefaultColor
		fc.Append(f)
	}

	segments := make(map[segmentKey]*geojson.Feature)
	for _, e := range g.Edges() {
		key := segmentKey{e.From, e.To, e.Type}
		if f, ok := segments[key]; ok {
			if cost := e.Cost.Seconds(); cost < f.Properties["cost"].(float64) {
				f.Properties["cost"] = cost
			}
			f.Properties["trips"] = f.Properties["trips"].(int) + 1
			continue
		}
		from, _ := g.Station(e.From)
		to, _ := g.Station(e.To)
		f := geojson.NewFeature(orb.LineString{point(from), point(to)})
		f.Properties["kind"] = "edge"
		f.Properties["type"] = e.Type.String()
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		f.Properties["line"] = e.Line
		f.Properties["color"] = palette.EdgeColor(e)
		f.Properties["width"] = edgeWidth(e.Line)
		f.Properties["cost"] = e.Cost.Seconds()
		trips := 0
		if e.Type == graph.EdgeRide {
			trips = 1
		}
		f.Properties["trips"] = trips
		segments[key] = f
		fc.Append(f)
	}
	return fc
}

// PathFeatures renders each leg of result as a colored line and each
// annotation as a labeled point.
func PathFeatures(result *routing.PathResult, palette *Palette) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, leg := range Legs(result, palette) {
		line := make(orb.LineString, 0, len(leg.Stations))
		for _, s := range leg.Stations {
			line = append(line, point(s))
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "leg"
		f.Properties["index"] = i
		f.Properties["transfer"] = leg.Transfer
		f.Properties["line"] = leg.Line
		f.Properties["trip"] = leg.TripID
		f.Properties["color"] = leg.Color
		f.Properties["cost"] = leg.Cost.Seconds()
		f.Properties["wait"] = leg.Wait.Seconds()
		f.Properties["heading"] = leg.Heading
		fc.Append(f)
	}
	for _, a := range Annotations(result) {
		f := stationFeature(a.Station, "annotation")
		f.Properties["text"] = a.Text
		f.Properties["align"] = a.Align
		fc.Append(f)
	}
	return fc
}

// TraceFeatures renders the expansion order of a search as points, for
// playback by an animation.
func TraceFeatures(trace []graph.Station) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range trace {
		f := stationFeature(s, "expanded")
		f.Properties["order"] = i
		fc.Append(f)
	}
	return fc
}
