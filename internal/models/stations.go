package models

type Station struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Line  string  `json:"line"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func NewStation(id, name, line, label string, lat, lon, x, y float64) Station {
	return Station{
		ID:    id,
		Name:  name,
		Line:  line,
		Label: label,
		Lat:   lat,
		Lon:   lon,
		X:     x,
		Y:     y,
	}
}

// StationWithDistance is a station returned by a location search. Distance
// is in meters.
type StationWithDistance struct {
	Station
	Distance float64 `json:"distance"`
}

// Edge is an outgoing connection of a station. Cost is in seconds.
type Edge struct {
	To        string `json:"to"`
	Type      string `json:"type"`
	Line      string `json:"line,omitempty"`
	TripID    string `json:"tripId,omitempty"`
	Cost      int64  `json:"cost"`
	Departure string `json:"departure,omitempty"`
}

type StationEntry struct {
	Station
	Outgoing []Edge `json:"outgoing"`
}

type Line struct {
	ID           string `json:"id"`
	ShortName    string `json:"shortName"`
	Mode         string `json:"mode"`
	Color        string `json:"color"`
	StationCount int    `json:"stationCount"`
}

func NewLine(id, shortName, mode, color string, stationCount int) Line {
	return Line{
		ID:           id,
		ShortName:    shortName,
		Mode:         mode,
		Color:        color,
		StationCount: stationCount,
	}
}
