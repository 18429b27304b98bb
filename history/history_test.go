package history

import (
	"testing"

	"github.com/signadot/rewind/libdiff"
	"github.com/signadot/rewind/tree"
)

func TestDiffOrder(t *testing.T) {
	d := libdiff.NewStructural()
	prev := map[string]any{"v": "old"}
	next := map[string]any{"v": "new", "added": 1}
	delta, err := Diff(d, next, prev)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	// a history entry patches the newer snapshot into the older one
	got, err := Restore(d, next, delta)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !tree.Equal(got, prev) {
		t.Errorf("Restore = %v, want %v", got, prev)
	}
}

func TestRestoreDoesNotMutate(t *testing.T) {
	d := libdiff.NewStructural()
	cur := map[string]any{"list": []any{"a", "b"}}
	old := map[string]any{"list": []any{"a"}}
	delta, err := Diff(d, cur, old)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if _, err := Restore(d, cur, delta); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(cur["list"].([]any)) != 2 {
		t.Errorf("Restore mutated its input: %v", cur)
	}
}

func TestRestoreWithRewind(t *testing.T) {
	d := libdiff.NewStructural()
	prev := map[string]any{"n": 1}
	next := map[string]any{"n": 2}
	delta, err := Diff(d, next, prev)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	restored, reverse, err := RestoreWithRewind(d, next, delta)
	if err != nil {
		t.Fatalf("RestoreWithRewind: %v", err)
	}
	if !tree.Equal(restored, prev) {
		t.Fatalf("restored = %v, want %v", restored, prev)
	}
	back, err := Restore(d, restored, reverse)
	if err != nil {
		t.Fatalf("Restore with reverse: %v", err)
	}
	if !tree.Equal(back, next) {
		t.Errorf("rewind = %v, want %v", back, next)
	}
}

func TestWalk(t *testing.T) {
	d := libdiff.NewStructural()
	states := []map[string]any{
		{"step": 3, "tags": []any{"a", "b", "c"}},
		{"step": 2, "tags": []any{"a", "b"}},
		{"step": 1, "tags": []any{"a"}},
		{"step": 0, "tags": []any{}},
	}
	deltas := make([]libdiff.Delta, 0, len(states)-1)
	for i := 0; i+1 < len(states); i++ {
		delta, err := Diff(d, states[i], states[i+1])
		if err != nil {
			t.Fatalf("Diff %d: %v", i, err)
		}
		deltas = append(deltas, delta)
	}

	i := 0
	for got, err := range Walk(d, states[0], deltas) {
		if err != nil {
			t.Fatalf("Walk step %d: %v", i, err)
		}
		want := states[i+1]
		if !tree.Equal(got, want) {
			t.Errorf("Walk step %d = %v, want %v", i, got, want)
		}
		i++
	}
	if i != len(deltas) {
		t.Errorf("Walk yielded %d states, want %d", i, len(deltas))
	}
}

func TestWalkRestartable(t *testing.T) {
	d := libdiff.NewStructural()
	s0 := map[string]any{"n": 2}
	s1 := map[string]any{"n": 1}
	s2 := map[string]any{"n": 0}
	d1, err := Diff(d, s0, s1)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	d2, err := Diff(d, s1, s2)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	seq := Walk(d, s0, []libdiff.Delta{d1, d2})

	// stop after the first state
	count := 0
	for _, err := range seq {
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		count++
		break
	}
	if count != 1 {
		t.Fatalf("early break yielded %d states", count)
	}

	// a second range restarts from the beginning
	var last any
	count = 0
	for got, err := range seq {
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		last = got
		count++
	}
	if count != 2 {
		t.Errorf("restarted walk yielded %d states, want 2", count)
	}
	if !tree.Equal(last, s2) {
		t.Errorf("restarted walk ended at %v, want %v", last, s2)
	}
}

func TestWalkNilStart(t *testing.T) {
	d := libdiff.NewStructural()
	for range Walk(d, nil, []libdiff.Delta{&libdiff.Change{Op: libdiff.OpReplace}}) {
		t.Fatalf("Walk with nil start yielded a state")
	}
}
