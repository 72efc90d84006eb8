package pipeline

import (
	"strconv"

	"github.com/matzehuels/toposort/pkg/toposort"
)

// Trace is a recorded sort, one event per step.
type Trace struct {
	Mode   string
	Events []toposort.Event

	// names maps dense indices back to identifiers; nil when event
	// identifiers are the identifiers themselves.
	names []string
}

// Name returns the identifier that event id id stands for.
func (t *Trace) Name(id int) string {
	if t.names == nil {
		return strconv.Itoa(id)
	}
	if id < 0 || id >= len(t.names) {
		return "?"
	}
	return t.names[id]
}

// Order returns the identifiers in the order they were visited.
func (t *Trace) Order() []string {
	var out []string
	for _, e := range t.Events {
		if e.Kind == toposort.EventVisit {
			out = append(out, t.Name(e.ID))
		}
	}
	return out
}
