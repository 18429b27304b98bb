package libdiff

// Delta is an opaque delta value. Only the Differ that produced a
// Delta can patch or reverse it.
type Delta any

// Differ computes, applies and inverts deltas between plain-data tree
// values. Implementations never modify their inputs; Patch returns a
// fresh value.
type Differ interface {
	// Diff returns a delta that patches from into to, or nil when the
	// two values are equal.
	Diff(from, to any) (Delta, error)
	// Patch applies a delta to doc and returns the patched value.
	Patch(doc any, delta Delta) (any, error)
	// Reverse returns the inverse delta: patching the output of the
	// original delta with the reversed one restores the input.
	Reverse(delta Delta) (Delta, error)
	// Clone returns a deep copy of doc.
	Clone(doc any) any
}
