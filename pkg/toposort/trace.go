package toposort

// EventKind identifies a step of the algorithm.
type EventKind int

const (
	// EventCount is emitted once per referenced item, in ascending order,
	// before any other event. Count is the item's predecessor count after
	// all relations are recorded.
	EventCount EventKind = iota
	// EventSeed is emitted when an item with no predecessors is queued
	// during the initial ascending scan.
	EventSeed
	// EventVisit is emitted when an item leaves the queue and is appended
	// to the output.
	EventVisit
	// EventDecrement is emitted when an item loses one pending predecessor.
	EventDecrement
	// EventEnqueue is emitted when a decrement brings an item to zero and
	// it joins the back of the queue.
	EventEnqueue
)

func (k EventKind) String() string {
	switch k {
	case EventCount:
		return "count"
	case EventSeed:
		return "seed"
	case EventVisit:
		return "visit"
	case EventDecrement:
		return "decrement"
	case EventEnqueue:
		return "enqueue"
	}
	return "unknown"
}

// Event is a single step recorded by [Trace].
type Event struct {
	Kind  EventKind
	ID    int // item the step applies to
	Count int // ID's pending predecessor count after the step
	Via   int // item being visited for decrement and enqueue steps, otherwise -1
}

// Trace runs the same algorithm as [Sort] and returns every step in the
// order it happened, starting with one [EventCount] per referenced item. The visit events, in order, spell out the result of
// [Sort]. It returns [ErrNegativeID] if any identifier is negative.
func Trace(relations []Relation) ([]Event, error) {
	if err := validate(relations); err != nil {
		return nil, err
	}
	var events []Event
	newDenseTable(relations).run(func(e Event) {
		events = append(events, e)
	})
	return events, nil
}
