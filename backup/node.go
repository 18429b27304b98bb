package backup

import (
	"maps"
	"slices"
)

// Codec is the save/load pair governing one slice of state. Save
// projects the live slice value into its stored form; Load
// reconstructs the live value from the stored one. A nil stored value
// is meaningful and round-trips.
type Codec struct {
	Save func(v any) (any, error)
	Load func(stored any, deps *Loader) (any, error)
}

// Node is one vertex of a codec tree: either a codec leaf or a
// subtree of named children in declaration order. The variant is
// explicit rather than inferred from shape, so a stored payload that
// happens to look like a codec cannot be mistaken for one.
type Node struct {
	Codec  *Codec
	Fields []Field
}

// Field names one child of a subtree node.
type Field struct {
	Key  string
	Node *Node
}

// Leaf returns a codec-tree leaf governed by codec.
func Leaf(codec *Codec) *Node {
	return &Node{Codec: codec}
}

// Tree returns a subtree with children in declaration order.
func Tree(fields ...Field) *Node {
	return &Node{Fields: fields}
}

// Map returns a subtree from a map, ordering children by sorted key.
func Map(m map[string]*Node) *Node {
	fields := make([]Field, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fields = append(fields, Field{Key: k, Node: m[k]})
	}
	return &Node{Fields: fields}
}

// Get returns the child node for key, or nil. Lookup is a linear
// scan; codec trees are small.
func (n *Node) Get(key string) *Node {
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			return n.Fields[i].Node
		}
	}
	return nil
}
