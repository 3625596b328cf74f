package graph

import (
	"sort"
	"strconv"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// SymmetricTransfers adds the reverse of every declared transfer that
	// has no explicit reverse row in the feed.
	SymmetricTransfers bool
}

// BuildOption is a functional option for Build.
type BuildOption func(*BuildOptions)

// WithSymmetricTransfers makes every transfer walkable in both directions.
func WithSymmetricTransfers() BuildOption {
	return func(o *BuildOptions) {
		o.SymmetricTransfers = true
	}
}

type transferKey struct {
	from, to int
}

// Build constructs a Graph from normalized feed records.
//
// Stations are keyed by their global identifier. Rides are emitted for every
// pair of consecutive stop times of a trip, after sorting the rows by their
// sequence number. Transfers are emitted as declared. Lines are processed in
// sorted order so that edge order, and therefore query output, depends only
// on the input records.
//
// Build fails with *MalformedFeedError on negative durations, duplicate
// sequence numbers, conflicting station records, or references to stations
// that are not part of the station set.
func Build(stations []Station, tripsByLine map[string][]Trip, transfersByLine map[string][]Transfer, opts ...BuildOption) (*Graph, error) {
	var options BuildOptions
	for _, opt := range opts {
		opt(&options)
	}

	g := &Graph{
		index: make(map[string]int, len(stations)),
	}

	lineSet := make(map[string]struct{})
	for _, s := range stations {
		if s.ID == "" {
			return nil, malformed(s.Line, "station", "empty station id (name %q)", s.Name)
		}
		if i, exists := g.index[s.ID]; exists {
			prev := g.stations[i]
			if prev.Name != s.Name || prev.Line != s.Line {
				return nil, malformed(s.Line, "station "+s.ID,
					"id already used by %q on line %s", prev.Name, prev.Line)
			}
			continue
		}
		g.index[s.ID] = len(g.stations)
		g.stations = append(g.stations, s)
		if s.Line != "" {
			lineSet[s.Line] = struct{}{}
		}
	}
	for line := range tripsByLine {
		lineSet[line] = struct{}{}
	}
	for line := range transfersByLine {
		lineSet[line] = struct{}{}
	}
	g.lines = sortedKeys(lineSet)

	for _, line := range g.lines {
		for _, trip := range tripsByLine[line] {
			if err := g.addTrip(line, trip); err != nil {
				return nil, err
			}
			g.stats.Trips++
		}
	}

	if err := g.addTransfers(transfersByLine, options.SymmetricTransfers); err != nil {
		return nil, err
	}

	g.outgoing = make([][]int, len(g.stations))
	for i, e := range g.edges {
		from := g.index[e.From]
		g.outgoing[from] = append(g.outgoing[from], i)
	}

	g.stats.Stations = len(g.stations)
	g.stats.Lines = len(g.lines)
	return g, nil
}

func (g *Graph) addTrip(line string, trip Trip) error {
	record := "trip " + trip.ID
	tripLine := trip.Line
	if tripLine == "" {
		tripLine = line
	}

	rows := make([]StopTime, len(trip.StopTimes))
	copy(rows, trip.StopTimes)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Sequence < rows[j].Sequence
	})

	for i, row := range rows {
		if !g.HasStation(row.StationID) {
			return malformed(line, record, "stop_sequence %d references unknown station %q", row.Sequence, row.StationID)
		}
		if row.Departure < row.Arrival {
			return malformed(line, record, "stop_sequence %d departs before it arrives", row.Sequence)
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		if prev.Sequence == row.Sequence {
			return malformed(line, record, "duplicate stop_sequence %d", row.Sequence)
		}
		cost := row.Arrival - prev.Departure
		if cost < 0 {
			return malformed(line, record, "negative travel time between stop_sequence %d and %d", prev.Sequence, row.Sequence)
		}
		g.edges = append(g.edges, Edge{
			From:      prev.StationID,
			To:        row.StationID,
			Type:      EdgeRide,
			Cost:      cost,
			TripID:    trip.ID,
			Line:      tripLine,
			Departure: prev.Departure,
		})
		g.stats.Rides++
	}
	return nil
}

func (g *Graph) addTransfers(transfersByLine map[string][]Transfer, symmetric bool) error {
	declared := make(map[transferKey]int)
	var order []transferKey

	for _, line := range g.lines {
		for n, t := range transfersByLine[line] {
			record := "transfer row " + strconv.Itoa(n+1)
			from, ok := g.index[t.FromID]
			if !ok {
				return malformed(line, record, "unknown from station %q", t.FromID)
			}
			to, ok := g.index[t.ToID]
			if !ok {
				return malformed(line, record, "unknown to station %q", t.ToID)
			}
			if t.WalkTime < 0 {
				return malformed(line, record, "negative walk time %s", t.WalkTime)
			}
			if from == to {
				continue
			}
			key := transferKey{from, to}
			if i, seen := declared[key]; seen {
				if t.WalkTime < g.edges[i].Cost {
					g.edges[i].Cost = t.WalkTime
				}
				continue
			}
			declared[key] = len(g.edges)
			order = append(order, key)
			g.edges = append(g.edges, Edge{
				From: t.FromID,
				To:   t.ToID,
				Type: EdgeTransfer,
				Cost: t.WalkTime,
			})
		}
	}

	if symmetric {
		for _, key := range order {
			reverse := transferKey{key.to, key.from}
			if _, seen := declared[reverse]; seen {
				continue
			}
			e := g.edges[declared[key]]
			declared[reverse] = len(g.edges)
			g.edges = append(g.edges, Edge{
				From: e.To,
				To:   e.From,
				Type: EdgeTransfer,
				Cost: e.Cost,
			})
		}
	}

	g.stats.Transfers = len(declared)
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
