package rewind

import (
	"github.com/signadot/rewind/libdiff"
)

// Action is one input to a wrapped transition. Tag decides how the
// step is classified; Payload carries whatever the transition needs.
// On undo and redo actions an integer Payload sets the number of
// steps to travel.
type Action struct {
	Tag     string `json:"tag" yaml:"tag"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Transition computes the next state from the current state and an
// action. The input state is read-only; the transition returns a
// fresh state. On the very first step the input state is nil.
type Transition func(state map[string]any, action Action) map[string]any

// Envelope carries the live state together with the time-travel
// bookkeeping around it. Envelopes are immutable: Step returns a
// fresh envelope and never modifies its argument, so older envelopes
// stay valid and share history entries with newer ones.
type Envelope struct {
	// State is the full live state, exactly as returned by the
	// wrapped transition on the most recent step.
	State map[string]any

	// Present snapshots the tracked slices of State as of the most
	// recent moment. It is nil until the first step.
	Present map[string]any

	// History holds deltas ordered newest first. Applying History[0]
	// to Present yields the previous present, applying History[1] to
	// that yields the present before it, and so on.
	History []libdiff.Delta

	// Future holds deltas for undone moments, most recently undone
	// first. Applying Future[0] to Present advances one moment.
	Future []libdiff.Delta
}

// Outcome reports what a step did beyond the envelope it returned.
// Recoverable conditions hand back the input envelope unchanged, so
// callers need the outcome to tell an exhausted undo apart from an
// ordinary pass.
type Outcome int

const (
	Passed Outcome = iota
	Recorded
	Undone
	Redone
	Resynced
	NothingToUndo
	NothingToRedo
	Noop
)

func (o Outcome) String() string {
	return map[Outcome]string{
		Passed:        "Passed",
		Recorded:      "Recorded",
		Undone:        "Undone",
		Redone:        "Redone",
		Resynced:      "Resynced",
		NothingToUndo: "NothingToUndo",
		NothingToRedo: "NothingToRedo",
		Noop:          "Noop",
	}[o]
}
