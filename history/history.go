// Package history records successive snapshots as compact, invertible
// deltas. It consumes a [libdiff.Differ] and never inspects deltas
// itself, so the delta strategy stays swappable.
//
// A history runs newest-first: entry zero takes the present snapshot
// back one step. Restoring with a delta and then with its reverse is
// the identity, which is what undo and redo are built from.
package history

import (
	"fmt"
	"iter"

	"github.com/signadot/rewind/libdiff"
)

// Diff returns the delta that takes next back to prev. The argument
// order is part of the contract: delta encodings are asymmetric, and
// every consumer of a history entry assumes it patches the newer
// snapshot into the older one.
func Diff(d libdiff.Differ, next, prev any) (libdiff.Delta, error) {
	return d.Diff(next, prev)
}

// Restore applies delta to a deep copy of current and returns the
// result. Callers never observe current mutated.
func Restore(d libdiff.Differ, current any, delta libdiff.Delta) (any, error) {
	res, err := d.Patch(d.Clone(current), delta)
	if err != nil {
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	return res, nil
}

// RestoreWithRewind restores like [Restore] and additionally returns
// the delta's inverse, an exact rewind step, without recomputing a
// diff from scratch.
func RestoreWithRewind(d libdiff.Differ, current any, delta libdiff.Delta) (any, libdiff.Delta, error) {
	reverse, err := d.Reverse(delta)
	if err != nil {
		return nil, nil, fmt.Errorf("reversing delta: %w", err)
	}
	restored, err := Restore(d, current, delta)
	if err != nil {
		return nil, nil, err
	}
	return restored, reverse, nil
}

// Walk returns a lazy sequence of the states reached by cumulatively
// restoring deltas from start, one state per delta in order. A nil
// start yields an empty sequence. The sequence is finite, restartable
// and stops early when the consumer does, so long histories never
// require full materialization. On a restore failure the walk yields
// the error and ends.
func Walk(d libdiff.Differ, start any, deltas []libdiff.Delta) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if start == nil {
			return
		}
		cur := start
		for _, delta := range deltas {
			next, err := Restore(d, cur, delta)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(next, nil) {
				return
			}
			cur = next
		}
	}
}
