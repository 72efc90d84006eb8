package toposort

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNegativeID is returned by [Analyze] and [Trace] when a relation
	// uses a negative identifier. Dense identifiers index a zero-based table.
	ErrNegativeID = errors.New("identifier must not be negative")

	// ErrCycle is matched by the [*CycleError] that [Result.Err] returns when
	// some referenced items could not be ordered.
	ErrCycle = errors.New("relations contain a cycle")
)

// Pair is a precedence relation between two identifiers: Before must appear
// earlier than After in the output.
type Pair[T comparable] struct {
	Before T `json:"before"`
	After  T `json:"after"`
}

// Relation is a precedence relation over dense non-negative integers.
type Relation = Pair[int]

// Result is the outcome of ordering a set of relations.
type Result[T comparable] struct {
	// Order lists the emitted items. Every relation between two emitted
	// items is respected.
	Order []T
	// Remaining lists referenced items that were never emitted because they
	// sit on a cycle or depend on one. Empty for acyclic input.
	Remaining []T
}

// Complete reports whether every referenced item was ordered.
func (r Result[T]) Complete() bool { return len(r.Remaining) == 0 }

// Len returns the number of distinct items referenced by the input.
func (r Result[T]) Len() int { return len(r.Order) + len(r.Remaining) }

// Err returns a [*CycleError] listing the remaining items, or nil if the
// ordering is complete.
func (r Result[T]) Err() error {
	if r.Complete() {
		return nil
	}
	remaining := make([]string, len(r.Remaining))
	for i, id := range r.Remaining {
		remaining[i] = fmt.Sprint(id)
	}
	return &CycleError{Ordered: len(r.Order), Remaining: remaining}
}

// CycleError reports items that could not be ordered.
type CycleError struct {
	Ordered   int      // number of items that were ordered
	Remaining []string // items left over, formatted with fmt.Sprint
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %d item(s) could not be ordered: %s",
		ErrCycle, len(e.Remaining), strings.Join(e.Remaining, ", "))
}

// Is reports whether target is [ErrCycle].
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// Sort returns the items referenced by relations in an order that satisfies
// every relation. Items on or behind a cycle are silently omitted.
//
// Identifiers must be non-negative; Sort panics otherwise. Use [Analyze] to
// get an error instead, and to learn which items were omitted.
func Sort(relations []Relation) []int {
	if err := validate(relations); err != nil {
		panic("toposort: " + err.Error())
	}
	t := newDenseTable(relations)
	return t.run(nil)
}

// Analyze orders relations like [Sort] and also reports the referenced items
// that could not be ordered, in ascending order. It returns [ErrNegativeID]
// if any identifier is negative.
func Analyze(relations []Relation) (Result[int], error) {
	if err := validate(relations); err != nil {
		return Result[int]{}, err
	}
	t := newDenseTable(relations)
	order := t.run(nil)
	return Result[int]{Order: order, Remaining: t.unresolved()}, nil
}

// IDs returns the distinct identifiers referenced by relations in ascending
// order.
func IDs(relations []Relation) []int {
	seen := make(map[int]struct{}, 2*len(relations))
	for _, r := range relations {
		seen[r.Before] = struct{}{}
		seen[r.After] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func validate(relations []Relation) error {
	for i, r := range relations {
		if r.Before < 0 || r.After < 0 {
			return fmt.Errorf("relation %d (%d, %d): %w", i, r.Before, r.After, ErrNegativeID)
		}
	}
	return nil
}
