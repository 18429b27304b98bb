// Package backup projects live state through a declarative codec tree
// into the minimal serializable snapshot needed to reconstruct it.
//
// # Usage
//
//	tree := backup.Tree(
//		backup.Field{Key: "session", Node: backup.Leaf(sessionCodec)},
//		backup.Field{Key: "layout", Node: backup.Tree(
//			backup.Field{Key: "panes", Node: backup.Leaf(paneCodec)},
//		)},
//	)
//
//	// project live state into a snapshot
//	snap, err := backup.Create(state, tree)
//
//	// reconstruct live state from a snapshot
//	state, err = backup.Load(base, tree, snap)
//
// Create visits codecs in declaration order; state keys the tree does
// not declare are omitted from the snapshot. Load gives each codec a
// [Loader] so one slice's reconstruction can depend on a sibling's,
// regardless of declaration order. Dependency cycles are detected and
// reported with the full cycle path.
//
// Snapshots are plain, serializable data: no functions, no cycles.
//
// # Related Packages
//
//   - github.com/signadot/rewind/tree - plain-data tree vocabulary
//   - github.com/signadot/rewind/history - delta histories over snapshots
package backup
