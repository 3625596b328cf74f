package graph

import (
	"errors"
	"fmt"
)

// ErrMalformedFeed is matched by every *MalformedFeedError through errors.Is.
var ErrMalformedFeed = errors.New("malformed feed")

// MalformedFeedError reports input records that cannot form a valid graph:
// negative durations, out-of-order stop times, or references to unknown
// stations. It is not recoverable by retrying.
type MalformedFeedError struct {
	Line   string
	Record string
	Reason string
}

func (e *MalformedFeedError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("malformed feed: %s: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("malformed feed: line %s: %s: %s", e.Line, e.Record, e.Reason)
}

func (e *MalformedFeedError) Is(target error) bool {
	return target == ErrMalformedFeed
}

func malformed(line, record, format string, args ...any) *MalformedFeedError {
	return &MalformedFeedError{
		Line:   line,
		Record: record,
		Reason: fmt.Sprintf(format, args...),
	}
}
