package toposort

import "github.com/emirpasic/gods/queues/arrayqueue"

// unreferenced marks a table slot that no relation mentions.
const unreferenced = -1

// item is one row of the working table.
type item struct {
	count      int   // predecessors not yet emitted, or unreferenced
	successors []int // items this one precedes, in relation order
}

// table is indexed by dense identifier.
type table []item

func newTable(n int) table {
	t := make(table, n)
	for i := range t {
		t[i].count = unreferenced
	}
	return t
}

// newDenseTable sizes the table to the largest identifier plus one and
// records every relation. Identifiers must already be validated.
func newDenseTable(relations []Relation) table {
	if len(relations) == 0 {
		return nil
	}
	hi := 0
	for _, r := range relations {
		hi = max(hi, r.Before, r.After)
	}
	t := newTable(hi + 1)
	for _, r := range relations {
		t.relate(r.Before, r.After)
	}
	return t
}

// relate records that before precedes after. The first touch of either slot
// lifts it from unreferenced to zero.
func (t table) relate(before, after int) {
	t[before].count = max(t[before].count, 0)
	t[after].count = max(t[after].count, 0)

	t[after].count++
	t[before].successors = append(t[before].successors, after)
}

// run reports the initial count of every referenced index, seeds the
// frontier in ascending index order, then drains it FIFO, queueing each
// successor on the step that brings its count to zero. Counts are consumed;
// call unresolved afterwards to find stuck items.
func (t table) run(observe func(Event)) []int {
	emit := func(kind EventKind, id, count, via int) {
		if observe != nil {
			observe(Event{Kind: kind, ID: id, Count: count, Via: via})
		}
	}

	if observe != nil {
		for ix := range t {
			if t[ix].count != unreferenced {
				emit(EventCount, ix, t[ix].count, -1)
			}
		}
	}

	queue := arrayqueue.New()
	for ix := range t {
		if t[ix].count == 0 {
			queue.Enqueue(ix)
			emit(EventSeed, ix, 0, -1)
		}
	}

	order := make([]int, 0, len(t))
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		ix := v.(int)
		order = append(order, ix)
		emit(EventVisit, ix, 0, -1)

		for _, s := range t[ix].successors {
			t[s].count--
			emit(EventDecrement, s, t[s].count, ix)
			if t[s].count == 0 {
				queue.Enqueue(s)
				emit(EventEnqueue, s, 0, ix)
			}
		}
	}
	return order
}

// unresolved returns, in ascending order, the referenced indices whose count
// never reached zero.
func (t table) unresolved() []int {
	var ids []int
	for ix, it := range t {
		if it.count > 0 {
			ids = append(ids, ix)
		}
	}
	return ids
}
