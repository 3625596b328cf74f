package graph

// Graph is the immutable station graph produced by Build.
//
// Accessors return shared slices; callers must not modify them.
type Graph struct {
	stations []Station
	index    map[string]int
	edges    []Edge
	outgoing [][]int
	lines    []string
	stats    Stats
}

// Station returns the station with the given ID.
func (g *Graph) Station(id string) (Station, bool) {
	i, ok := g.index[id]
	if !ok {
		return Station{}, false
	}
	return g.stations[i], true
}

// HasStation reports whether id is a node of the graph.
func (g *Graph) HasStation(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Stations returns every station in insertion order.
func (g *Graph) Stations() []Station {
	return g.stations
}

// Lines returns the line identifiers in sorted order.
func (g *Graph) Lines() []string {
	return g.lines
}

// Edges returns every edge in construction order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Outgoing returns the edges leaving the station, in construction order.
func (g *Graph) Outgoing(id string) []Edge {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]Edge, len(g.outgoing[i]))
	for k, e := range g.outgoing[i] {
		out[k] = g.edges[e]
	}
	return out
}

// NumStations returns the number of nodes.
func (g *Graph) NumStations() int {
	return len(g.stations)
}

// NumEdges returns the number of edges, rides and transfers included.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Stats returns size counters computed at build time.
func (g *Graph) Stats() Stats {
	return g.stats
}

// StationIndex returns the dense index of a station, usable with EdgeAt and
// OutgoingIndexes. Search code uses it to avoid map lookups in hot loops.
func (g *Graph) StationIndex(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// StationAt returns the station at a dense index.
func (g *Graph) StationAt(i int) Station {
	return g.stations[i]
}

// EdgeAt returns the edge at a dense index.
func (g *Graph) EdgeAt(i int) Edge {
	return g.edges[i]
}

// OutgoingIndexes returns the edge indexes leaving the station at dense
// index i, in construction order.
func (g *Graph) OutgoingIndexes(i int) []int {
	return g.outgoing[i]
}
