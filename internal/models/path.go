package models

// Polyline is an encoded polyline of Length points.
type Polyline struct {
	Length int    `json:"length"`
	Levels string `json:"levels"`
	Points string `json:"points"`
}

// Leg is a run of a path on one line, or a transfer. Costs are in seconds.
type Leg struct {
	Transfer      bool     `json:"transfer"`
	Line          string   `json:"line,omitempty"`
	TripID        string   `json:"tripId,omitempty"`
	Color         string   `json:"color"`
	Heading       string   `json:"heading"`
	FromStationID string   `json:"fromStationId"`
	ToStationID   string   `json:"toStationId"`
	StationIDs    []string `json:"stationIds"`
	Cost          int64    `json:"cost"`
	Wait          int64    `json:"wait"`
	Departure     string   `json:"departure,omitempty"`
}

// PathEntry is the answer to a path query. Found is false when the
// destination cannot be reached; the other fields are then empty.
type PathEntry struct {
	FromStationID string   `json:"fromStationId"`
	ToStationID   string   `json:"toStationId"`
	Found         bool     `json:"found"`
	Scheduled     bool     `json:"scheduled"`
	DepartAt      string   `json:"departAt,omitempty"`
	ArriveAt      string   `json:"arriveAt,omitempty"`
	TotalCost     int64    `json:"totalCost"`
	Expanded      int      `json:"expanded"`
	StationIDs    []string `json:"stationIds"`
	Legs          []Leg    `json:"legs"`
	Polyline      Polyline `json:"polyline"`
	Trace         []string `json:"trace,omitempty"`
}

// ReachableStation is a station within the cost limit of an isochrone
// query. Cost is in seconds.
type ReachableStation struct {
	StationID string `json:"stationId"`
	Cost      int64  `json:"cost"`
}
