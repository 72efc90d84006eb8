package toposort

import (
	"cmp"
	"slices"
)

// SortFunc orders relations over an arbitrary comparable identifier type.
//
// The distinct identifiers are mapped to dense indices once per call. If
// compare is non-nil, indices follow compare order, so the initial frontier
// is seeded in ascending compare order; identifiers that compare equal keep
// their first-appearance order. If compare is nil, indices follow the order
// in which identifiers first appear in pairs.
//
// Items that cannot be ordered because of a cycle are returned in
// [Result.Remaining], in index order.
func SortFunc[T comparable](pairs []Pair[T], compare func(a, b T) int) Result[T] {
	m := newMapping(pairs, compare)
	order := m.table.run(nil)
	res := Result[T]{Order: make([]T, len(order))}
	for i, ix := range order {
		res.Order[i] = m.keys[ix]
	}
	for _, ix := range m.table.unresolved() {
		res.Remaining = append(res.Remaining, m.keys[ix])
	}
	return res
}

// TraceFunc is [Trace] for an arbitrary comparable identifier type.
// Identifiers are mapped exactly as [SortFunc] maps them; the ID and Via of
// every event index into the returned keys.
func TraceFunc[T comparable](pairs []Pair[T], compare func(a, b T) int) ([]Event, []T) {
	m := newMapping(pairs, compare)
	var events []Event
	m.table.run(func(e Event) {
		events = append(events, e)
	})
	return events, m.keys
}

// mapping is a relation set translated to dense indices. keys[i] is the
// identifier of index i.
type mapping[T comparable] struct {
	keys  []T
	table table
}

func newMapping[T comparable](pairs []Pair[T], compare func(a, b T) int) mapping[T] {
	keys := distinct(pairs)
	if compare != nil {
		slices.SortStableFunc(keys, compare)
	}

	index := make(map[T]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}

	t := newTable(len(keys))
	for _, p := range pairs {
		t.relate(index[p.Before], index[p.After])
	}
	return mapping[T]{keys: keys, table: t}
}

// SortOrdered is [SortFunc] with the natural ordering of T. For int
// identifiers, Order matches the output of [Sort].
func SortOrdered[T cmp.Ordered](pairs []Pair[T]) Result[T] {
	return SortFunc(pairs, cmp.Compare[T])
}

// distinct returns each identifier once, in order of first appearance.
func distinct[T comparable](pairs []Pair[T]) []T {
	seen := make(map[T]struct{}, 2*len(pairs))
	keys := make([]T, 0, len(pairs))
	add := func(k T) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for _, p := range pairs {
		add(p.Before)
		add(p.After)
	}
	return keys
}
