// Package toposort orders items so that every precedence relation holds.
//
// # Overview
//
// A relation (before, after) states that before must appear earlier than
// after in the output. The package implements Kahn's algorithm: every item
// tracks how many unprocessed predecessors it still has, items whose count
// is zero form the frontier, and emitting an item decrements the counts of
// its successors. The algorithm follows the presentation in Knuth, The Art
// of Computer Programming, Vol. 1, section 2.2.3.
//
// # Dense Identifiers
//
// [Sort] works directly on non-negative integers. The working table is sized
// to the largest identifier seen plus one; slots that no relation mentions
// are not part of the domain and never appear in the output:
//
//	order := toposort.Sort([]toposort.Relation{{Before: 9, After: 2}, {Before: 1, After: 9}})
//	// order == [1 9 2]
//
// # Tie-Breaking
//
// The initial frontier is seeded in ascending identifier order. After that,
// items are emitted in discovery order: an item that reaches zero is queued
// behind everything already waiting, and the successors of one item are
// visited in the order their relations arrived. Given the relations (5,1)
// and (5,2) the output is [5 1 2]; given (5,2) and (5,1) it is [5 2 1].
//
// # Cycles
//
// Items on a cycle, and items reachable only through one, never reach a zero
// count. [Sort] silently omits them and returns the valid prefix ordering.
// [Analyze] returns the same ordering together with the omitted items in
// [Result.Remaining]; [Result.Err] turns a shortfall into a [*CycleError].
//
// # Arbitrary Identifiers
//
// [SortFunc] and [SortOrdered] accept any comparable identifier type. The
// identifiers are mapped to dense indices once per call, so callers are not
// forced into a contiguous integer domain:
//
//	res := toposort.SortOrdered([]toposort.Pair[string]{{Before: "lib", After: "app"}})
//	// res.Order == [lib app]
//
// # Concurrency
//
// All functions are reentrant. Each call owns its working table, queue and
// output; nothing is shared between calls.
package toposort
