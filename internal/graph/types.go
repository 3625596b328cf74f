// Package graph builds the directed weighted multigraph of a transit network.
//
// Stations are the nodes. Edges are either rides (two consecutive stops of
// the same trip) or transfers (walks between stations). A Graph is
// immutable once Build returns and can be shared by any number of
// concurrent readers.
package graph

import (
	"fmt"
	"time"
)

// Station is a node of the network. X and Y are projected coordinates in
// meters; Lat and Lon are kept for presentation.
type Station struct {
	ID   string
	Name string
	Line string
	Lat  float64
	Lon  float64
	X    float64
	Y    float64
}

// StopTime is one row of a trip. Offsets are measured from the start of the
// service day and may exceed 24h.
type StopTime struct {
	StationID string
	Sequence  int
	Arrival   time.Duration
	Departure time.Duration
}

// Trip is a scheduled run of a vehicle along a route.
type Trip struct {
	ID        string
	RouteID   string
	Line      string
	StopTimes []StopTime
}

// Transfer is a declared interchange between two stations.
type Transfer struct {
	FromID   string
	ToID     string
	WalkTime time.Duration
}

// EdgeType tags an edge as a ride or a transfer.
type EdgeType int

const (
	EdgeRide EdgeType = iota
	EdgeTransfer
)

func (t EdgeType) String() string {
	switch t {
	case EdgeRide:
		return "RIDE"
	case EdgeTransfer:
		return "TRANSFER"
	default:
		return fmt.Sprintf("EdgeType(%d)", int(t))
	}
}

// Edge is a directed connection between two stations. TripID, Line and
// Departure are only set on rides. Cost is the travel time for rides and the
// walking time for transfers.
type Edge struct {
	From      string
	To        string
	Type      EdgeType
	Cost      time.Duration
	TripID    string
	Line      string
	Departure time.Duration
}

// Stats summarises the size of a graph.
type Stats struct {
	Stations  int
	Lines     int
	Trips     int
	Rides     int
	Transfers int
}
