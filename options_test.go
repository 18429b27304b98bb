package rewind

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/signadot/rewind/libdiff"
)

func TestWithTags(t *testing.T) {
	u := Wrap(editorStep, editorNode(), WithTags("back", "fwd", "sync"))
	var env *Envelope
	var err error
	for _, text := range []string{"a", "ab"} {
		env, _, err = u.Step(env, Action{Tag: "edit@moment", Payload: text})
		if err != nil {
			t.Fatal(err)
		}
	}
	next, out, err := u.Step(env, Action{Tag: DefaultUndoTag})
	if err != nil {
		t.Fatal(err)
	}
	if out != Passed {
		t.Errorf("default undo tag: outcome %s, want %s", out, Passed)
	}
	next, out, err = u.Step(env, Action{Tag: "back"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Undone || docText(t, next) != "a" {
		t.Errorf("back: outcome %s, text %q, want %s, %q", out, docText(t, next), Undone, "a")
	}
	next, out, err = u.Step(next, Action{Tag: "fwd"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Redone || docText(t, next) != "ab" {
		t.Errorf("fwd: outcome %s, text %q, want %s, %q", out, docText(t, next), Redone, "ab")
	}
	_, out, err = u.Step(next, Action{Tag: "sync"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Resynced {
		t.Errorf("sync: outcome %s, want %s", out, Resynced)
	}
}

func TestWithMarker(t *testing.T) {
	u := Wrap(editorStep, editorNode(), WithMarker("!"))
	env, _, err := u.Step(nil, Action{Tag: "edit@moment", Payload: "a"})
	if err != nil {
		t.Fatal(err)
	}
	env, out, err := u.Step(env, Action{Tag: "edit@moment", Payload: "ab"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Passed || len(env.History) != 0 {
		t.Errorf("old marker: outcome %s, history %d, want %s, 0", out, len(env.History), Passed)
	}
	env, out, err = u.Step(env, Action{Tag: "edit!", Payload: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Recorded || len(env.History) != 1 {
		t.Errorf("new marker: outcome %s, history %d, want %s, 1", out, len(env.History), Recorded)
	}
}

func TestWithMomentFunc(t *testing.T) {
	u := Wrap(editorStep, editorNode(), WithMomentFunc(func(a Action) bool {
		return a.Tag == "save"
	}))
	env, _, err := u.Step(nil, Action{Tag: "edit@moment", Payload: "a"})
	if err != nil {
		t.Fatal(err)
	}
	env, out, err := u.Step(env, Action{Tag: "edit@moment", Payload: "ab"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Passed {
		t.Errorf("marker tag with moment func: outcome %s, want %s", out, Passed)
	}
	env, out, err = u.Step(env, Action{Tag: "save"})
	if err != nil {
		t.Fatal(err)
	}
	if out != Recorded || len(env.History) != 1 || presentText(t, env) != "ab" {
		t.Errorf("save: outcome %s, history %d, present %q", out, len(env.History), presentText(t, env))
	}
}

func TestWithDiffer(t *testing.T) {
	u := Wrap(editorStep, editorNode(), WithDiffer(libdiff.NewMergePatch()))
	var env *Envelope
	var err error
	for _, text := range []string{"a", "ab"} {
		env, _, err = u.Step(env, Action{Tag: "edit@moment", Payload: text})
		if err != nil {
			t.Fatal(err)
		}
	}
	env, out, err := u.Step(env, Action{Tag: DefaultUndoTag})
	if err != nil {
		t.Fatal(err)
	}
	if out != Undone || docText(t, env) != "a" {
		t.Errorf("undo: outcome %s, text %q, want %s, %q", out, docText(t, env), Undone, "a")
	}
	env, out, err = u.Step(env, Action{Tag: DefaultRedoTag})
	if err != nil {
		t.Fatal(err)
	}
	if out != Redone || docText(t, env) != "ab" {
		t.Errorf("redo: outcome %s, text %q, want %s, %q", out, docText(t, env), Redone, "ab")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	u := Wrap(editorStep, editorNode(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	env, _, err := u.Step(nil, Action{Tag: "edit@moment", Payload: "a"})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = u.Step(env, Action{Tag: DefaultUndoTag})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "nothing to undo") {
		t.Errorf("log output %q, want a nothing-to-undo warning", buf.String())
	}
	buf.Reset()
	_, _, err = u.Step(env, Action{Tag: DefaultRedoTag, Payload: 0})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no-op") {
		t.Errorf("log output %q, want a no-op warning", buf.String())
	}
}
