package runtime

import (
	"slices"
	"strings"
)

// Status is a set of flags reported while an event is routed. Flags from
// every node on the dispatch path are OR-ed together.
type Status uint8

const (
	StatusFine   Status = 0
	StatusRedraw Status = 1
	// StatusRemeasure includes StatusRedraw.
	StatusRemeasure Status = 3
	// StatusDeselect clears the selection and closes open widgets.
	StatusDeselect Status = 4
)

// Has reports whether every bit of flag is set.
func (s Status) Has(flag Status) bool {
	return s&flag == flag
}

func (s Status) String() string {
	if s == StatusFine {
		return "fine"
	}
	var parts []string
	switch {
	case s.Has(StatusRemeasure):
		parts = append(parts, "remeasure")
	case s.Has(StatusRedraw):
		parts = append(parts, "redraw")
	}
	if s.Has(StatusDeselect) {
		parts = append(parts, "deselect")
	}
	return strings.Join(parts, "|")
}

// Callback mutates application state. Callbacks are never run while the
// tree is being traversed; they are queued and run afterwards in order.
type Callback func(app *App)

// Response is the outcome of one dispatch.
type Response struct {
	Status    Status
	Callbacks []Callback
}

// Merge combines two responses. Flags are OR-ed and callbacks keep their
// order, r's first.
func (r Response) Merge(other Response) Response {
	return Response{
		Status:    r.Status | other.Status,
		Callbacks: append(slices.Clip(r.Callbacks), other.Callbacks...),
	}
}

// Empty reports whether the response asks for nothing.
func (r Response) Empty() bool {
	return r.Status == StatusFine && len(r.Callbacks) == 0
}
