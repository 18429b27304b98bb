package backup

import (
	"errors"
	"strings"
	"testing"

	"github.com/signadot/rewind/tree"
)

func TestLoadMergesBase(t *testing.T) {
	base := map[string]any{"kept": "yes", "covered": "stale"}
	node := Tree(Field{Key: "covered", Node: Leaf(identity())})
	got, err := Load(base, node, map[string]any{"covered": "fresh"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]any{"kept": "yes", "covered": "fresh"}
	if !tree.Equal(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
	if base["covered"] != "stale" {
		t.Errorf("Load mutated base")
	}
}

func TestLoadNilSnapshot(t *testing.T) {
	node := Tree(Field{Key: "a", Node: Leaf(&Codec{
		Save: func(v any) (any, error) { return v, nil },
		Load: func(stored any, _ *Loader) (any, error) {
			if stored != nil {
				t.Errorf("stored = %v, want nil", stored)
			}
			return "default", nil
		},
	})})
	got, err := Load(nil, node, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["a"] != "default" {
		t.Errorf("Load = %v", got)
	}
}

// dependent returns a codec whose load reads sibling dep before
// producing its own value.
func dependent(dep string) *Codec {
	return &Codec{
		Save: func(v any) (any, error) { return v, nil },
		Load: func(stored any, deps *Loader) (any, error) {
			v, err := deps.Needs(dep)
			if err != nil {
				return nil, err
			}
			return map[string]any{"own": stored, "saw": v}, nil
		},
	}
}

func TestNeedsSibling(t *testing.T) {
	node := Tree(
		Field{Key: "a", Node: Leaf(dependent("b"))},
		Field{Key: "b", Node: Leaf(identity())},
	)
	got, err := Load(nil, node, map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]any{
		"a": map[string]any{"own": 1, "saw": 2},
		"b": 2,
	}
	if !tree.Equal(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

// counter is a codec that reads shared, then bumps it by one.
func counter() *Codec {
	return &Codec{
		Save: func(v any) (any, error) { return v, nil },
		Load: func(stored any, deps *Loader) (any, error) {
			v, err := deps.Needs("shared")
			if err != nil {
				return nil, err
			}
			n, _ := tree.Number(v)
			if err := deps.Update("shared", int(n)+1); err != nil {
				return nil, err
			}
			return stored, nil
		},
	}
}

func TestSiblingUpdates(t *testing.T) {
	node := Tree(
		Field{Key: "p", Node: Leaf(counter())},
		Field{Key: "q", Node: Leaf(counter())},
		Field{Key: "shared", Node: Leaf(identity())},
	)
	got, err := Load(nil, node, map[string]any{"p": "p", "q": "q", "shared": 10})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !tree.Equal(got["shared"], 12) {
		t.Errorf("shared = %v, want 12", got["shared"])
	}
}

func TestOrderIndependence(t *testing.T) {
	snap := map[string]any{"p": "p", "q": "q", "shared": 10}
	orders := []*Node{
		Tree(
			Field{Key: "p", Node: Leaf(counter())},
			Field{Key: "q", Node: Leaf(counter())},
			Field{Key: "shared", Node: Leaf(identity())},
		),
		Tree(
			Field{Key: "shared", Node: Leaf(identity())},
			Field{Key: "q", Node: Leaf(counter())},
			Field{Key: "p", Node: Leaf(counter())},
		),
	}
	var results []map[string]any
	for i, node := range orders {
		got, err := Load(nil, node, snap)
		if err != nil {
			t.Fatalf("order %d: Load: %v", i, err)
		}
		results = append(results, got)
	}
	if !tree.Equal(results[0], results[1]) {
		t.Errorf("declaration order changed the result: %v vs %v", results[0], results[1])
	}
}

func needsCodec(dep string) *Codec {
	return &Codec{
		Save: func(v any) (any, error) { return v, nil },
		Load: func(stored any, deps *Loader) (any, error) {
			if _, err := deps.Needs(dep); err != nil {
				return nil, err
			}
			return stored, nil
		},
	}
}

func TestCycleDetection(t *testing.T) {
	node := Tree(
		Field{Key: "a", Node: Leaf(needsCodec("b"))},
		Field{Key: "b", Node: Leaf(needsCodec("a"))},
	)
	_, err := Load(nil, node, map[string]any{"a": 1, "b": 2})
	if err == nil {
		t.Fatalf("Load with cyclic deps succeeded, want error")
	}
	if !errors.Is(err, ErrCycle) {
		t.Errorf("error = %v, want ErrCycle", err)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("error = %q, want the full cycle path in it", err)
	}
}

func TestSelfCycle(t *testing.T) {
	node := Tree(Field{Key: "a", Node: Leaf(needsCodec("a"))})
	_, err := Load(nil, node, map[string]any{"a": 1})
	if !errors.Is(err, ErrCycle) {
		t.Errorf("error = %v, want ErrCycle", err)
	}
}

func TestNeedsUnknownKey(t *testing.T) {
	node := Tree(Field{Key: "a", Node: Leaf(needsCodec("nope"))})
	_, err := Load(nil, node, map[string]any{"a": 1})
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("error = %v, want ErrUnknownKey", err)
	}
}

func TestUpdateMergesMaps(t *testing.T) {
	node := Tree(
		Field{Key: "adjuster", Node: Leaf(&Codec{
			Save: func(v any) (any, error) { return v, nil },
			Load: func(stored any, deps *Loader) (any, error) {
				if err := deps.Update("target", map[string]any{"patched": true}); err != nil {
					return nil, err
				}
				if err := deps.Update("plain", "overwritten"); err != nil {
					return nil, err
				}
				return stored, nil
			},
		})},
		Field{Key: "target", Node: Leaf(identity())},
		Field{Key: "plain", Node: Leaf(identity())},
	)
	orig := map[string]any{"kept": 1}
	snap := map[string]any{
		"adjuster": "x",
		"target":   orig,
		"plain":    []any{1, 2},
	}
	got, err := Load(nil, node, snap)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantTarget := map[string]any{"kept": 1, "patched": true}
	if !tree.Equal(got["target"], wantTarget) {
		t.Errorf("target = %v, want %v", got["target"], wantTarget)
	}
	if !tree.Equal(got["plain"], "overwritten") {
		t.Errorf("plain = %v, want overwritten", got["plain"])
	}
	// the snapshot's value must not be patched in place
	if _, ok := orig["patched"]; ok {
		t.Errorf("Update modified the loaded value in place")
	}
}

func TestNestedLoaderScope(t *testing.T) {
	node := Tree(
		Field{Key: "outer", Node: Tree(
			Field{Key: "x", Node: Leaf(dependent("y"))},
			Field{Key: "y", Node: Leaf(identity())},
		)},
	)
	got, err := Load(nil, node, map[string]any{
		"outer": map[string]any{"x": "sx", "y": "sy"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]any{
		"outer": map[string]any{
			"x": map[string]any{"own": "sx", "saw": "sy"},
			"y": "sy",
		},
	}
	if !tree.Equal(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}
