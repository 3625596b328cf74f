package routing

import (
	"time"

	"metrograph.onebusaway.org/internal/graph"
)

// DefaultMaxSpeed is the speed bound, in meters per second, used by the
// heuristic when none is configured. It is raised automatically when the
// graph contains a faster edge.
const DefaultMaxSpeed = 25.0

// EngineOptions configures an Engine.
type EngineOptions struct {
	// MaxSpeed bounds the speed of any vehicle, in meters per second.
	MaxSpeed float64

	// TransferPenalty is added to the cost of every transfer edge.
	TransferPenalty time.Duration
}

// EngineOption is a functional option for NewEngine.
type EngineOption func(*EngineOptions)

// WithMaxSpeed sets the heuristic speed bound. Values <= 0 keep the default.
func WithMaxSpeed(metersPerSecond float64) EngineOption {
	return func(o *EngineOptions) {
		if metersPerSecond > 0 {
			o.MaxSpeed = metersPerSecond
		}
	}
}

// WithTransferPenalty charges d on top of every transfer. Negative values
// are ignored.
func WithTransferPenalty(d time.Duration) EngineOption {
	return func(o *EngineOptions) {
		if d >= 0 {
			o.TransferPenalty = d
		}
	}
}

// QueryOptions configures a single query.
type QueryOptions struct {
	// DepartAt enables time-dependent costs when Scheduled is true.
	DepartAt  time.Duration
	Scheduled bool

	// Budget caps the number of expanded stations. Zero means unlimited.
	Budget int

	// Trace records the expansion order in the result.
	Trace bool

	// Hook is called for every expanded station, in expansion order.
	Hook func(graph.Station)
}

// QueryOption is a functional option for FindPath and Reachable.
type QueryOption func(*QueryOptions)

// WithDepartAt makes ride costs include the wait for the next departure of
// each trip, starting the clock at offset (measured from the service day
// start, like stop times).
func WithDepartAt(offset time.Duration) QueryOption {
	return func(o *QueryOptions) {
		o.DepartAt = offset
		o.Scheduled = true
	}
}

// WithExpansionBudget bounds the number of stations a query may expand.
// n <= 0 means unlimited.
func WithExpansionBudget(n int) QueryOption {
	return func(o *QueryOptions) {
		if n < 0 {
			n = 0
		}
		o.Budget = n
	}
}

// WithTrace records every expanded station in PathResult.Trace.
func WithTrace() QueryOption {
	return func(o *QueryOptions) {
		o.Trace = true
	}
}

// WithExpansionHook registers fn to observe the search as it runs. Hooks
// from several options all run, in the order they were given.
func WithExpansionHook(fn func(graph.Station)) QueryOption {
	return func(o *QueryOptions) {
		if fn == nil {
			return
		}
		if prev := o.Hook; prev != nil {
			o.Hook = func(s graph.Station) {
				prev(s)
				fn(s)
			}
			return
		}
		o.Hook = fn
	}
}

func applyQueryOptions(opts []QueryOption) QueryOptions {
	var options QueryOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
