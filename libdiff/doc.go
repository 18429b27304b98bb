// Package libdiff provides delta computation over plain-data trees.
//
// # Usage
//
//	d := libdiff.NewStructural()
//
//	// Compute a delta between two values
//	delta, err := d.Diff(from, to)
//
//	// Apply it
//	patched, err := d.Patch(from, delta)
//
//	// Invert it
//	back, err := d.Reverse(delta)
//
// Deltas are plain serializable data that can be stored, transmitted
// and applied to reconstruct earlier states. A nil delta means the two
// values were equal.
//
// The delta strategy is pluggable through the Differ interface.
// Structural is the default; MergePatch trades precision for
// interoperability with JSON merge-patch tooling.
//
// # Related Packages
//
//   - github.com/signadot/rewind/tree - plain-data tree vocabulary
//   - github.com/signadot/rewind/history - delta histories built on Differ
package libdiff
