package libdiff

import (
	"github.com/signadot/rewind/tree"
)

// Op identifies the operation a Change performs on the value it
// addresses.
type Op string

const (
	OpInsert  Op = "insert"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
	OpObject  Op = "object"
	OpArray   Op = "array"
	OpText    Op = "text"
)

// Change is one node of a structural delta. Op selects the
// interpretation:
//
//   - OpInsert: To appears where nothing was.
//   - OpDelete: From disappears.
//   - OpReplace: From is exchanged for To wholesale.
//   - OpObject: Fields holds sub-changes per record key.
//   - OpArray: Elems holds element operations keyed by output slot.
//   - OpText: Elems holds rune-run operations keyed by output slot,
//     with string From/To payloads.
//
// A Change tree is plain serializable data; it round-trips through
// JSON and YAML.
type Change struct {
	Op     Op                 `json:"op" yaml:"op"`
	From   any                `json:"from,omitempty" yaml:"from,omitempty"`
	To     any                `json:"to,omitempty" yaml:"to,omitempty"`
	Fields map[string]*Change `json:"fields,omitempty" yaml:"fields,omitempty"`
	Elems  map[int]*Change    `json:"elems,omitempty" yaml:"elems,omitempty"`
}

func insertChange(to any) *Change {
	return &Change{Op: OpInsert, To: tree.Clone(to)}
}

func deleteChange(from any) *Change {
	return &Change{Op: OpDelete, From: tree.Clone(from)}
}

func replaceChange(from, to any) *Change {
	return &Change{Op: OpReplace, From: tree.Clone(from), To: tree.Clone(to)}
}
