package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the frontier empties before the
	// destination is reached. It is an expected outcome on disconnected
	// graphs, not a fault.
	ErrNotFound = errors.New("no path found")

	// ErrBudgetExhausted is returned when a query expands more stations
	// than its expansion budget allows.
	ErrBudgetExhausted = errors.New("expansion budget exhausted")

	// ErrUnknownStation is matched by every *UnknownStationError.
	ErrUnknownStation = errors.New("unknown station")
)

// UnknownStationError reports a query naming a station that is not part of
// the graph.
type UnknownStationError struct {
	ID string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.ID)
}

func (e *UnknownStationError) Is(target error) bool {
	return target == ErrUnknownStation
}
