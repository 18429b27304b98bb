package backup

import (
	"fmt"
)

// Create projects state through the codec tree in declaration order
// and returns a fresh snapshot shaped like the tree. State keys the
// tree does not declare are omitted. A missing state subtree recurses
// against nil, so codecs see nil slice values rather than errors.
func Create(state map[string]any, node *Node) (map[string]any, error) {
	if node == nil || node.Codec != nil {
		return nil, fmt.Errorf("codec tree root must be a subtree")
	}
	return create(state, node, "$")
}

func create(state map[string]any, node *Node, at string) (map[string]any, error) {
	snap := make(map[string]any, len(node.Fields))
	for _, f := range node.Fields {
		fat := at + "." + f.Key
		if f.Node == nil {
			return nil, fmt.Errorf("nil codec-tree node at %s", fat)
		}
		if f.Node.Codec != nil {
			stored, err := f.Node.Codec.Save(state[f.Key])
			if err != nil {
				return nil, fmt.Errorf("saving %s: %w", fat, err)
			}
			snap[f.Key] = stored
			continue
		}
		sub, _ := state[f.Key].(map[string]any)
		s, err := create(sub, f.Node, fat)
		if err != nil {
			return nil, err
		}
		snap[f.Key] = s
	}
	return snap, nil
}
