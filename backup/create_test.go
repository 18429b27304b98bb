package backup

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/signadot/rewind/tree"
)

func identity() *Codec {
	return &Codec{
		Save: func(v any) (any, error) { return v, nil },
		Load: func(stored any, _ *Loader) (any, error) { return stored, nil },
	}
}

func TestCreateProjection(t *testing.T) {
	state := map[string]any{
		"session": map[string]any{"user": "ko", "token": "secret"},
		"layout":  map[string]any{"panes": []any{"left", "right"}, "zoom": 2},
		"scratch": "not backed up",
	}
	node := Tree(
		Field{Key: "session", Node: Leaf(&Codec{
			// strip the token, keep the user
			Save: func(v any) (any, error) {
				m, _ := v.(map[string]any)
				return map[string]any{"user": m["user"]}, nil
			},
			Load: func(stored any, _ *Loader) (any, error) { return stored, nil },
		})},
		Field{Key: "layout", Node: Tree(
			Field{Key: "panes", Node: Leaf(identity())},
		)},
	)
	snap, err := Create(state, node)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := map[string]any{
		"session": map[string]any{"user": "ko"},
		"layout":  map[string]any{"panes": []any{"left", "right"}},
	}
	if !tree.Equal(snap, want) {
		t.Errorf("snapshot = %v, want %v", snap, want)
	}
	if _, ok := snap["scratch"]; ok {
		t.Errorf("undeclared key leaked into snapshot")
	}
}

func TestCreateNilValues(t *testing.T) {
	node := Tree(
		Field{Key: "missing", Node: Leaf(identity())},
		Field{Key: "explicit", Node: Leaf(&Codec{
			Save: func(v any) (any, error) { return nil, nil },
			Load: func(stored any, _ *Loader) (any, error) { return stored, nil },
		})},
		Field{Key: "sub", Node: Tree(
			Field{Key: "inner", Node: Leaf(identity())},
		)},
	)
	snap, err := Create(map[string]any{"explicit": "dropped"}, node)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, key := range []string{"missing", "explicit"} {
		v, ok := snap[key]
		if !ok {
			t.Errorf("key %q absent from snapshot, want explicit nil", key)
		}
		if v != nil {
			t.Errorf("snapshot[%q] = %v, want nil", key, v)
		}
	}
	sub, ok := snap["sub"].(map[string]any)
	if !ok {
		t.Fatalf("snapshot[sub] = %v, want map", snap["sub"])
	}
	if v := sub["inner"]; v != nil {
		t.Errorf("missing subtree produced %v, want nil", v)
	}
}

func TestCreateSaveError(t *testing.T) {
	node := Tree(
		Field{Key: "outer", Node: Tree(
			Field{Key: "bad", Node: Leaf(&Codec{
				Save: func(v any) (any, error) { return nil, fmt.Errorf("boom") },
				Load: func(stored any, _ *Loader) (any, error) { return stored, nil },
			})},
		)},
	)
	_, err := Create(map[string]any{}, node)
	if err == nil {
		t.Fatalf("Create succeeded, want error")
	}
	if !strings.Contains(err.Error(), "$.outer.bad") {
		t.Errorf("error = %q, want the failing path in it", err)
	}
}

func TestCreateLeafRoot(t *testing.T) {
	if _, err := Create(map[string]any{}, Leaf(identity())); err == nil {
		t.Fatalf("Create with leaf root succeeded, want error")
	}
}

// genState builds a random state and a codec tree covering all of it
// with identity codecs, nesting up to depth levels.
func genState(r *rand.Rand, depth int) (map[string]any, *Node) {
	n := 1 + r.IntN(3)
	state := make(map[string]any, n)
	fields := make([]Field, 0, n)
	for i := range n {
		key := fmt.Sprintf("k%d", i)
		if depth > 1 && r.IntN(2) == 0 {
			sub, subNode := genState(r, depth-1)
			state[key] = sub
			fields = append(fields, Field{Key: key, Node: subNode})
			continue
		}
		var v any
		switch r.IntN(4) {
		case 0:
			v = r.IntN(100)
		case 1:
			v = fmt.Sprintf("v%d", r.IntN(100))
		case 2:
			v = []any{r.IntN(10), r.IntN(10)}
		case 3:
			v = nil
		}
		state[key] = v
		fields = append(fields, Field{Key: key, Node: Leaf(identity())})
	}
	return state, Tree(fields...)
}

func TestRoundTripGenerated(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 50 {
		state, node := genState(r, 3)
		snap, err := Create(state, node)
		if err != nil {
			t.Fatalf("shape %d: Create: %v", i, err)
		}
		got, err := Load(nil, node, snap)
		if err != nil {
			t.Fatalf("shape %d: Load: %v", i, err)
		}
		if !tree.Equal(got, state) {
			t.Errorf("shape %d: round trip = %v, want %v", i, got, state)
		}
	}
}
