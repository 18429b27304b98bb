package backup

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/rewind/tree"
)

var (
	// ErrCycle reports a circular dependency between slice loads.
	// Continuing would loop, so the whole Load aborts.
	ErrCycle = errors.New("circular dependency")
	// ErrDoubleLoad reports a slice loaded twice in one pass, a
	// broken codec-tree invariant.
	ErrDoubleLoad = errors.New("slice loaded twice")
	// ErrUnknownKey reports a dependency on a key the codec tree does
	// not declare at this level.
	ErrUnknownKey = errors.New("unknown slice")
)

// Load reconstructs live state from a snapshot. Every declared key is
// loaded exactly once, in declaration order unless a codec pulls a
// sibling forward through its [Loader]. The result is a shallow merge
// of base with the loaded values: undeclared keys keep their base
// values untouched. Neither input is modified.
func Load(base map[string]any, node *Node, snapshot map[string]any) (map[string]any, error) {
	if node == nil || node.Codec != nil {
		return nil, fmt.Errorf("codec tree root must be a subtree")
	}
	return loadTree(base, node, snapshot)
}

func loadTree(base map[string]any, node *Node, snap map[string]any) (map[string]any, error) {
	l := &Loader{
		node:   node,
		base:   base,
		snap:   snap,
		loaded: make(map[string]any, len(node.Fields)),
		done:   make(map[string]bool, len(node.Fields)),
	}
	for _, f := range node.Fields {
		if err := l.loadKey(f.Key); err != nil {
			return nil, err
		}
	}
	return tree.Merge(base, l.loaded), nil
}

// Loader resolves cross-slice dependencies during one Load pass. A
// Loader is scoped to a single subtree level of a single call; codecs
// receive it in their Load function and must not retain it.
type Loader struct {
	node   *Node
	base   map[string]any
	snap   map[string]any
	loaded map[string]any
	done   map[string]bool
	// in-progress keys, newest last
	queue []string
}

// Needs ensures the sibling slice key is loaded and returns its
// loaded value. A dependency chain that re-enters a key already in
// progress is a cycle and fails with the full cycle path.
func (l *Loader) Needs(key string) (any, error) {
	if err := l.loadKey(key); err != nil {
		return nil, err
	}
	return l.loaded[key], nil
}

// Update adjusts the already-loaded value of sibling key, loading it
// first if needed. A map patch over a map value shallow-merges onto a
// copy; any other patch overwrites. The previously loaded value is
// never modified in place.
func (l *Loader) Update(key string, patch any) error {
	if err := l.loadKey(key); err != nil {
		return err
	}
	if patchMap, ok := patch.(map[string]any); ok {
		if curMap, ok := l.loaded[key].(map[string]any); ok {
			l.loaded[key] = tree.Merge(curMap, patchMap)
			return nil
		}
	}
	l.loaded[key] = patch
	return nil
}

func (l *Loader) loadKey(key string) error {
	if l.done[key] {
		return nil
	}
	if i := slices.Index(l.queue, key); i >= 0 {
		cycle := append(slices.Clone(l.queue[i:]), key)
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
	}
	field := l.node.Get(key)
	if field == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	l.queue = append(l.queue, key)
	defer func() {
		l.queue = l.queue[:len(l.queue)-1]
	}()

	var (
		v   any
		err error
	)
	if field.Codec != nil {
		v, err = field.Codec.Load(l.snap[key], l)
	} else {
		baseSub, _ := l.base[key].(map[string]any)
		snapSub, _ := l.snap[key].(map[string]any)
		v, err = loadTree(baseSub, field, snapSub)
	}
	if err != nil {
		return fmt.Errorf("loading %q: %w", key, err)
	}
	if l.done[key] {
		return fmt.Errorf("%w: %q", ErrDoubleLoad, key)
	}
	l.done[key] = true
	l.loaded[key] = v
	return nil
}
