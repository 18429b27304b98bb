// Package store persists snapshots across runs.
//
// Stores are advisory: the Persist and Restore helpers log failures
// and carry on, so a broken store degrades persistence without ever
// interrupting stepping.
package store

import (
	"log/slog"
)

// Store persists one snapshot stream. Read returns nil without an
// error when nothing has been stored yet.
type Store interface {
	Write(snapshot map[string]any) error
	Read() (map[string]any, error)
	Close() error
}

// Persist writes snapshot to s, logging and swallowing failure. Nil
// stores and nil snapshots are skipped.
func Persist(s Store, snapshot map[string]any, log *slog.Logger) {
	if s == nil || snapshot == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}
	if err := s.Write(snapshot); err != nil {
		log.Warn("persisting snapshot", "err", err)
	}
}

// Restore reads the most recent stored snapshot, falling back to
// fallback when the store is nil, empty or unreadable.
func Restore(s Store, fallback map[string]any, log *slog.Logger) map[string]any {
	if s == nil {
		return fallback
	}
	if log == nil {
		log = slog.Default()
	}
	snap, err := s.Read()
	if err != nil {
		log.Warn("reading stored snapshot", "err", err)
		return fallback
	}
	if snap == nil {
		return fallback
	}
	return snap
}
