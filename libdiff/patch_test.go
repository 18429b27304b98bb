package libdiff

import (
	"strings"
	"testing"

	"github.com/signadot/rewind/tree"
)

func TestPatchNilDelta(t *testing.T) {
	d := NewStructural()
	doc := map[string]any{"a": []any{1}}
	got, err := d.Patch(doc, nil)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !tree.Equal(got, doc) {
		t.Fatalf("Patch with nil delta changed the document")
	}
	got.(map[string]any)["a"].([]any)[0] = 99
	if doc["a"].([]any)[0] != 1 {
		t.Errorf("Patch result shares structure with the document")
	}
}

func TestPatchDoesNotMutate(t *testing.T) {
	d := NewStructural()
	doc := map[string]any{"a": map[string]any{"b": 1}, "keep": []any{"x"}}
	delta, err := d.Diff(doc, map[string]any{"a": map[string]any{"b": 2}, "keep": []any{"x"}})
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if _, err := d.Patch(doc, delta); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if doc["a"].(map[string]any)["b"] != 1 {
		t.Errorf("Patch mutated the input document")
	}
}

func TestPatchWrongDocument(t *testing.T) {
	d := NewStructural()
	delta, err := d.Diff(map[string]any{"v": "a"}, map[string]any{"v": "b"})
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	_, err = d.Patch(map[string]any{"v": "c"}, delta)
	if err == nil {
		t.Fatalf("Patch on mismatched document succeeded, want error")
	}
	if !strings.Contains(err.Error(), "cannot patch") {
		t.Errorf("error = %q, want a cannot-patch error", err)
	}
}

func TestPatchWrongArrayDocument(t *testing.T) {
	d := NewStructural()
	delta, err := d.Diff([]any{1, 2, 3}, []any{1, 3})
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if _, err := d.Patch([]any{1, 9, 3}, delta); err == nil {
		t.Fatalf("Patch on mismatched array succeeded, want error")
	}
}

func TestPatchTextMultipleEdits(t *testing.T) {
	d := NewStructural()
	from, to := "alpha X beta Y gamma", "alpha beta Z gamma"
	delta, err := d.Diff(from, to)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	got, err := d.Patch(from, delta)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got != to {
		t.Errorf("Patch = %q, want %q", got, to)
	}
	rev, err := d.Reverse(delta)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	back, err := d.Patch(to, rev)
	if err != nil {
		t.Fatalf("Patch reversed: %v", err)
	}
	if back != from {
		t.Errorf("reverse Patch = %q, want %q", back, from)
	}
}
