package routing

import (
	"time"

	"metrograph.onebusaway.org/internal/graph"
)

type label struct {
	cost    time.Duration
	charged time.Duration
	wait    time.Duration
	edge    int
	prev    int
	reached bool
}

type searchState struct {
	labels   []label
	settled  []bool
	order    []int
	trace    []graph.Station
	expanded int
	err      error
}

// search runs best-first search from origin. With dest >= 0 it stops when
// dest is settled; with limit >= 0 it never records costs above limit.
func (e *Engine) search(origin, dest int, limit time.Duration, options QueryOptions) *searchState {
	n := e.graph.NumStations()
	s := &searchState{
		labels:  make([]label, n),
		settled: make([]bool, n),
	}
	if options.Trace {
		s.trace = []graph.Station{}
	}

	s.labels[origin] = label{reached: true, edge: -1, prev: -1}
	var f frontier
	f.push(origin, 0, e.heuristic(origin, dest))

	for f.Len() > 0 {
		item := f.pop()
		node := item.node
		if s.settled[node] || item.cost > s.labels[node].cost {
			continue
		}
		s.settled[node] = true
		s.order = append(s.order, node)
		if node == dest {
			return s
		}

		if options.Budget > 0 && s.expanded >= options.Budget {
			s.err = ErrBudgetExhausted
			return s
		}
		s.expanded++
		station := e.graph.StationAt(node)
		if options.Trace {
			s.trace = append(s.trace, station)
		}
		if options.Hook != nil {
			options.Hook(station)
		}

		for _, idx := range e.graph.OutgoingIndexes(node) {
			edge := e.graph.EdgeAt(idx)
			charged, wait, usable := e.edgeCost(edge, item.cost, options)
			if !usable {
				continue
			}
			to, _ := e.graph.StationIndex(edge.To)
			if s.settled[to] {
				continue
			}
			cost := item.cost + charged
			if limit >= 0 && cost > limit {
				continue
			}
			if l := s.labels[to]; l.reached && cost >= l.cost {
				continue
			}
			s.labels[to] = label{
				cost:    cost,
				charged: charged,
				wait:    wait,
				edge:    idx,
				prev:    node,
				reached: true,
			}
			f.push(to, cost, cost+e.heuristic(to, dest))
		}
	}
	return s
}

// edgeCost returns the charged cost of traversing edge when the search has
// accumulated elapsed cost so far.
func (e *Engine) edgeCost(edge graph.Edge, elapsed time.Duration, options QueryOptions) (charged, wait time.Duration, usable bool) {
	if edge.Type == graph.EdgeTransfer {
		return edge.Cost + e.transferPenalty, 0, true
	}
	if !options.Scheduled {
		return edge.Cost, 0, true
	}
	clock := options.DepartAt + elapsed
	if edge.Departure < clock {
		return 0, 0, false
	}
	wait = edge.Departure - clock
	return wait + edge.Cost, wait, true
}
