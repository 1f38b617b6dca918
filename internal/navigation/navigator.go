// Package navigation tracks which trade group is currently displayed.
// The navigator holds a 1-based index bounded by the current group count;
// boundary operations are no-ops rather than wraps, and out-of-range jumps
// are rejected so the navigator can never reference a non-existent group.
package navigation

import "errors"

// ErrGroupOutOfRange is returned by Jump for a target outside [1, N].
var ErrGroupOutOfRange = errors.New("group index out of range")

// Navigator is the per-session group selection state machine.
// It is not safe for concurrent use; the session owning it serializes
// render passes.
type Navigator struct {
	current int
	count   int
}

// New creates a navigator over n groups. With at least one group the
// selection starts at group 1; with none the navigator has no valid state.
func New(n int) *Navigator {
	nav := &Navigator{}
	nav.Resize(n)
	return nav
}

// Current returns the selected 1-based group index, or 0 when there are
// no groups.
func (n *Navigator) Current() int { return n.current }

// Count returns the number of groups the navigator ranges over.
func (n *Navigator) Count() int { return n.count }

// Valid reports whether the navigator currently selects an existing group.
func (n *Navigator) Valid() bool { return n.count > 0 && n.current >= 1 && n.current <= n.count }

// Prev steps to the previous group. At the lower bound it is a no-op.
func (n *Navigator) Prev() {
	if n.current > 1 {
		n.current--
	}
}

// Next steps to the following group. At the upper bound it is a no-op.
func (n *Navigator) Next() {
	if n.current < n.count {
		n.current++
	}
}

// Jump selects group k. A target outside [1, N] is rejected and the
// selection is left unchanged.
func (n *Navigator) Jump(k int) error {
	if k < 1 || k > n.count {
		return ErrGroupOutOfRange
	}
	n.current = k
	return nil
}

// Resize adjusts the navigator to a new group count, clamping the
// selection so it stays valid: a selection past the new end moves to the
// last group, and a previously empty navigator starts at group 1.
func (n *Navigator) Resize(count int) {
	if count < 0 {
		count = 0
	}
	n.count = count
	switch {
	case count == 0:
		n.current = 0
	case n.current == 0:
		n.current = 1
	case n.current > count:
		n.current = count
	}
}
