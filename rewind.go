// Package rewind wraps a state transition function with undo, redo
// and moment recording over a declared portion of its state.
//
// A moment is a snapshot of the tracked slices of the live state,
// captured through a backup codec tree. Undo and redo walk the
// snapshot backwards or forwards through deltas kept in the envelope,
// then rebuild the live state by loading the stepped snapshot over
// the current one. Slices outside the codec tree never participate in
// time travel.
//
// The wrapped transition runs first on every step, whatever the
// action's classification; the classified effect applies to its
// result.
package rewind

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/signadot/rewind/backup"
	"github.com/signadot/rewind/debug"
	"github.com/signadot/rewind/history"
	"github.com/signadot/rewind/libdiff"
	"github.com/signadot/rewind/tree"
)

// Default classification vocabulary. The undo, redo and apply tags
// match exactly; the marker matches anywhere within a tag.
const (
	DefaultUndoTag  = "@rewind/undo"
	DefaultRedoTag  = "@rewind/redo"
	DefaultApplyTag = "@rewind/apply"
	DefaultMarker   = "@moment"
)

// Undoable wraps a transition with moment recording and time travel.
// Build one with Wrap; the zero value is not usable.
type Undoable struct {
	transition Transition
	node       *backup.Node
	differ     libdiff.Differ
	limit      int
	log        *slog.Logger
	undoTag    string
	redoTag    string
	applyTag   string
	marker     string
	momentFn   func(Action) bool
}

// Wrap returns an Undoable around transition. node declares which
// slices of the state are tracked: moments snapshot exactly those
// slices, and time travel rewrites exactly those slices of the live
// state, leaving the rest as the transition last produced it.
func Wrap(transition Transition, node *backup.Node, opts ...Option) *Undoable {
	u := &Undoable{
		transition: transition,
		node:       node,
		differ:     libdiff.NewStructural(),
		undoTag:    DefaultUndoTag,
		redoTag:    DefaultRedoTag,
		applyTag:   DefaultApplyTag,
		marker:     DefaultMarker,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.differ == nil {
		u.differ = libdiff.NewStructural()
	}
	if u.log == nil {
		u.log = slog.Default()
	}
	return u
}

// Step runs action through the wrapped transition and applies the
// action's classified effect to env.
//
// The first step, recognized by env being nil or carrying no present,
// always records a moment of the transition's result. After that,
// exact matches on the configured undo, redo and apply tags travel
// back through history, travel forward through the future, and
// resynchronize the present, respectively; actions whose tag contains
// the moment marker record a new moment; anything else passes
// through, touching neither history nor future.
//
// The returned envelope is always fresh and env is never modified.
// Recoverable conditions, undo or redo past the end and zero travel
// distance, log a warning, return env itself and name the condition
// in the Outcome. A non-nil error means no envelope could be
// produced; the other return values are then meaningless.
func (u *Undoable) Step(env *Envelope, action Action) (*Envelope, Outcome, error) {
	if env == nil {
		env = &Envelope{}
	}
	raw := u.transition(env.State, action)
	if debug.Step() {
		debug.Logf("step tag=%q state: %v\n", action.Tag, raw)
	}
	switch {
	case env.Present == nil:
		return u.record(env, raw)
	case u.tagIs(action, u.undoTag):
		return u.travel(env, raw, u.travelDistance(action))
	case u.tagIs(action, u.redoTag):
		return u.travel(env, raw, -u.travelDistance(action))
	case u.tagIs(action, u.applyTag):
		return u.resync(env, raw)
	case u.isMoment(action):
		return u.record(env, raw)
	default:
		return &Envelope{
			State:   raw,
			Present: env.Present,
			History: env.History,
			Future:  env.Future,
		}, Passed, nil
	}
}

func (u *Undoable) tagIs(a Action, tag string) bool {
	return tag != "" && a.Tag == tag
}

func (u *Undoable) isMoment(a Action) bool {
	if u.momentFn != nil {
		return u.momentFn(a)
	}
	return u.marker != "" && strings.Contains(a.Tag, u.marker)
}

// travelDistance reads the step count from an undo or redo action's
// payload. JSON-decoded payloads arrive as float64, so any numeric
// kind counts. Missing or non-numeric payloads mean one step.
func (u *Undoable) travelDistance(a Action) int {
	n, ok := tree.Number(a.Payload)
	if !ok {
		return 1
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// record captures a new moment from raw and prepends the delta back
// to the previous moment, if any. Recording always clears the future.
func (u *Undoable) record(env *Envelope, raw map[string]any) (*Envelope, Outcome, error) {
	present, err := backup.Create(raw, u.node)
	if err != nil {
		return nil, Passed, fmt.Errorf("creating snapshot: %w", err)
	}
	if env.Present == nil {
		// First moment; nothing to diff against.
		return &Envelope{State: raw, Present: present}, Recorded, nil
	}
	delta, err := history.Diff(u.differ, present, env.Present)
	if err != nil {
		return nil, Passed, fmt.Errorf("recording moment: %w", err)
	}
	if debug.Diff() {
		debug.Logf("moment delta: %v\n", delta)
	}
	hist := append([]libdiff.Delta{delta}, env.History...)
	if u.limit > 0 && len(hist) > u.limit {
		hist = hist[:u.limit]
	}
	return &Envelope{State: raw, Present: present, History: hist}, Recorded, nil
}

// travel steps the present dist moments back through history when
// dist is positive, or -dist moments forward through the future when
// it is negative, then rebuilds the live state around the stepped
// present.
func (u *Undoable) travel(env *Envelope, raw map[string]any, dist int) (*Envelope, Outcome, error) {
	if dist == 0 {
		u.log.Warn("time travel of zero steps is a no-op")
		return env, Noop, nil
	}
	steps, source := dist, env.History
	if dist < 0 {
		steps, source = -dist, env.Future
	}
	if steps > len(source) {
		if dist > 0 {
			u.log.Warn("nothing to undo", "requested", steps, "recorded", len(source))
			return env, NothingToUndo, nil
		}
		u.log.Warn("nothing to redo", "requested", steps, "undone", len(source))
		return env, NothingToRedo, nil
	}
	present := env.Present
	reversed := make([]libdiff.Delta, steps)
	for i := range steps {
		stepped, back, err := history.RestoreWithRewind(u.differ, present, source[i])
		if err != nil {
			return nil, Passed, fmt.Errorf("restoring moment %d of %d: %w", i+1, steps, err)
		}
		if debug.Patch() {
			debug.Logf("moment %d stepped present: %v\n", i+1, stepped)
		}
		present = stepped.(map[string]any)
		reversed[i] = back
	}
	if debug.Load() {
		debug.Logf("loading present: %v\n", present)
	}
	state, err := backup.Load(raw, u.node, present)
	if err != nil {
		return nil, Passed, fmt.Errorf("loading stepped present: %w", err)
	}
	// The deltas just applied, each reversed, land on the opposite
	// list so traveling back retraces them nearest first.
	opposite := env.Future
	if dist < 0 {
		opposite = env.History
	}
	slices.Reverse(reversed)
	merged := append(reversed, opposite...)
	rest := source[steps:]
	if len(rest) == 0 {
		rest = nil
	}
	if dist > 0 {
		return &Envelope{State: state, Present: present, History: rest, Future: merged}, Undone, nil
	}
	return &Envelope{State: state, Present: present, History: merged, Future: rest}, Redone, nil
}

// resync recomputes the present from the live state without recording
// a moment, then re-expresses the most recent history entry against
// the new present so undo still lands on the same prior moment.
func (u *Undoable) resync(env *Envelope, raw map[string]any) (*Envelope, Outcome, error) {
	present, err := backup.Create(raw, u.node)
	if err != nil {
		return nil, Passed, fmt.Errorf("creating snapshot: %w", err)
	}
	if len(env.History) == 0 {
		return &Envelope{State: raw, Present: present}, Resynced, nil
	}
	prior, err := history.Restore(u.differ, env.Present, env.History[0])
	if err != nil {
		return nil, Passed, fmt.Errorf("recovering prior moment: %w", err)
	}
	delta, err := history.Diff(u.differ, present, prior)
	if err != nil {
		return nil, Passed, fmt.Errorf("rebasing history: %w", err)
	}
	hist := slices.Clone(env.History)
	hist[0] = delta
	return &Envelope{State: raw, Present: present, History: hist}, Resynced, nil
}
