package rewind

import (
	"log/slog"

	"github.com/signadot/rewind/libdiff"
)

// Option configures an Undoable.
type Option func(*Undoable)

// WithDiffer sets the differ used to record and replay moments. The
// default is libdiff.NewStructural(). Envelopes only replay against
// the differ that recorded them.
func WithDiffer(d libdiff.Differ) Option {
	return func(u *Undoable) {
		u.differ = d
	}
}

// WithLimit bounds how many moments of history are kept; recording
// past the bound drops the oldest entries. Zero or negative means
// unbounded, which is the default. The future is never bounded: it
// can only hold moments that were once history.
func WithLimit(n int) Option {
	return func(u *Undoable) {
		u.limit = n
	}
}

// WithLogger sets the logger for recoverable conditions. The default
// is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(u *Undoable) {
		u.log = log
	}
}

// WithTags replaces the exact-match undo, redo and apply tags. An
// empty string disables that classification.
func WithTags(undo, redo, apply string) Option {
	return func(u *Undoable) {
		u.undoTag = undo
		u.redoTag = redo
		u.applyTag = apply
	}
}

// WithMarker replaces the substring that marks an action as recording
// a moment. An empty string disables marker matching.
func WithMarker(marker string) Option {
	return func(u *Undoable) {
		u.marker = marker
	}
}

// WithMomentFunc replaces the marker convention: f alone decides
// whether an action records a moment. The undo, redo and apply tags
// are still classified first.
func WithMomentFunc(f func(Action) bool) Option {
	return func(u *Undoable) {
		u.momentFn = f
	}
}
