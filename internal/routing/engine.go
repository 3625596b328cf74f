// Package routing answers shortest-path and reachability queries on a
// transit graph.
//
// FindPath runs an A* search whose heuristic is the straight-line distance
// between projected coordinates divided by a speed bound. Reachable runs the
// same search without a target and with a cost ceiling.
//
// An Engine never mutates its graph and keeps all search state local to a
// call, so one Engine can serve concurrent queries.
package routing

import (
	"fmt"
	"math"
	"time"

	"metrograph.onebusaway.org/internal/graph"
)

// Engine runs queries against one graph.
type Engine struct {
	graph           *graph.Graph
	speed           float64
	configuredSpeed float64
	transferPenalty time.Duration
}

// Step is one traversed edge of a path. Cost is what the search charged for
// the edge: travel plus Wait for rides, walk plus the transfer penalty for
// transfers.
type Step struct {
	Edge graph.Edge
	Cost time.Duration
	Wait time.Duration
}

// PathResult is the outcome of a successful FindPath call. The costs of
// Steps add up to TotalCost.
type PathResult struct {
	Stations  []graph.Station
	Steps     []Step
	TotalCost time.Duration
	DepartAt  time.Duration
	Scheduled bool
	Expanded  int
	Trace     []graph.Station
}

// Reach is a station reachable from a query origin.
type Reach struct {
	Station graph.Station
	Cost    time.Duration
}

// NewEngine prepares an engine for g.
//
// The heuristic speed is the larger of the configured bound and the fastest
// edge actually present in g, so the heuristic never overestimates the
// remaining cost. A zero-cost edge between distinct coordinates makes any
// positive estimate unsafe and turns the heuristic off.
func NewEngine(g *graph.Graph, opts ...EngineOption) *Engine {
	options := EngineOptions{MaxSpeed: DefaultMaxSpeed}
	for _, opt := range opts {
		opt(&options)
	}

	e := &Engine{
		graph:           g,
		configuredSpeed: options.MaxSpeed,
		transferPenalty: options.TransferPenalty,
	}
	e.speed = e.admissibleSpeed(options.MaxSpeed)
	return e
}

func (e *Engine) admissibleSpeed(configured float64) float64 {
	speed := configured
	for _, edge := range e.graph.Edges() {
		from, _ := e.graph.Station(edge.From)
		to, _ := e.graph.Station(edge.To)
		d := distance(from, to)
		if d == 0 {
			continue
		}
		if edge.Cost <= 0 {
			return 0
		}
		if v := d / edge.Cost.Seconds(); v > speed {
			speed = v
		}
	}
	// Guard against rounding when converting estimates to durations.
	return speed * (1 + 1e-9)
}

// Graph returns the graph the engine queries.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// HeuristicSpeed returns the speed bound in use, in meters per second. Zero
// means the heuristic is disabled.
func (e *Engine) HeuristicSpeed() float64 {
	return e.speed
}

// HeuristicRelaxed reports whether the graph forced the engine to use a
// bound other than the configured one.
func (e *Engine) HeuristicRelaxed() bool {
	return e.speed == 0 || e.speed > e.configuredSpeed*(1+1e-9)
}

// TransferPenalty returns the cost added to every transfer.
func (e *Engine) TransferPenalty() time.Duration {
	return e.transferPenalty
}

// FindPath returns a minimum-cost path from originID to destID.
//
// It fails with *UnknownStationError when either station is absent, with
// ErrNotFound when the destination cannot be reached and with
// ErrBudgetExhausted when the expansion budget runs out first.
func (e *Engine) FindPath(originID, destID string, opts ...QueryOption) (*PathResult, error) {
	origin, ok := e.graph.StationIndex(originID)
	if !ok {
		return nil, &UnknownStationError{ID: originID}
	}
	dest, ok := e.graph.StationIndex(destID)
	if !ok {
		return nil, &UnknownStationError{ID: destID}
	}
	options := applyQueryOptions(opts)

	result := &PathResult{
		DepartAt:  options.DepartAt,
		Scheduled: options.Scheduled,
	}
	if origin == dest {
		result.Stations = []graph.Station{e.graph.StationAt(origin)}
		result.Steps = []Step{}
		if options.Trace {
			result.Trace = []graph.Station{}
		}
		return result, nil
	}

	s := e.search(origin, dest, -1, options)
	result.Expanded = s.expanded
	result.Trace = s.trace
	if s.err != nil {
		return nil, s.err
	}
	if !s.settled[dest] {
		return nil, fmt.Errorf("%w: %s to %s", ErrNotFound, originID, destID)
	}

	var steps []Step
	for node := dest; node != origin; {
		l := s.labels[node]
		edge := e.graph.EdgeAt(l.edge)
		steps = append(steps, Step{Edge: edge, Cost: l.charged, Wait: l.wait})
		node = l.prev
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	result.Steps = steps
	result.Stations = make([]graph.Station, 0, len(steps)+1)
	result.Stations = append(result.Stations, e.graph.StationAt(origin))
	for _, step := range steps {
		st, _ := e.graph.Station(step.Edge.To)
		result.Stations = append(result.Stations, st)
		result.TotalCost += step.Cost
	}
	return result, nil
}

// Reachable lists every station whose minimum cost from originID is at most
// maxCost, ordered by cost and, for equal costs, by discovery order. The
// origin is always first with cost zero.
func (e *Engine) Reachable(originID string, maxCost time.Duration, opts ...QueryOption) ([]Reach, error) {
	origin, ok := e.graph.StationIndex(originID)
	if !ok {
		return nil, &UnknownStationError{ID: originID}
	}
	if maxCost < 0 {
		return nil, fmt.Errorf("max cost must be non-negative, got %s", maxCost)
	}
	options := applyQueryOptions(opts)

	s := e.search(origin, -1, maxCost, options)
	if s.err != nil {
		return nil, s.err
	}

	reaches := make([]Reach, 0, len(s.order))
	for _, node := range s.order {
		reaches = append(reaches, Reach{
			Station: e.graph.StationAt(node),
			Cost:    s.labels[node].cost,
		})
	}
	return reaches, nil
}

func (e *Engine) heuristic(node, dest int) time.Duration {
	if dest < 0 || e.speed == 0 {
		return 0
	}
	d := distance(e.graph.StationAt(node), e.graph.StationAt(dest))
	return time.Duration(d / e.speed * float64(time.Second))
}

func distance(a, b graph.Station) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
