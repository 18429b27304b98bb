package libdiff

import (
	"reflect"

	"github.com/signadot/rewind/tree"
)

// Structural is the default Differ. It compares tree values
// recursively and encodes the difference as a Change tree.
type Structural struct {
	cfg structuralConfig
}

type structuralConfig struct {
	textDiff bool
}

// StructuralOpt configures a Structural differ.
type StructuralOpt func(*structuralConfig)

// TextDiff controls whether changed strings get rune-level edit
// scripts. When off, a changed string becomes a wholesale replace.
// On by default.
func TextDiff(v bool) StructuralOpt {
	return func(c *structuralConfig) {
		c.textDiff = v
	}
}

// NewStructural returns the default structural differ.
func NewStructural(opts ...StructuralOpt) *Structural {
	cfg := structuralConfig{textDiff: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Structural{cfg: cfg}
}

var _ Differ = (*Structural)(nil)

// Diff produces a succinct comparison of from and to. If there are no
// differences, Diff returns nil.
//
// A resulting delta may be reversed with [Structural.Reverse] and
// applied with [Structural.Patch].
//
//   - if the kinds of from and to differ, the result is a wholesale
//     replace carrying both values
//
//   - for records, any key in from but not in to yields a delete, any
//     key in to but not in from yields an insert, equal values are
//     absent, and differing values recurse
//
//   - for sequences, elements are aligned by similarity and the result
//     holds per-slot insert, delete, replace or recursive operations
//
//   - for strings, a rune-level edit script is produced unless its
//     size exceeds half the smaller string, in which case the whole
//     string is replaced
//
// Numbers compare by value across Go kinds. Values outside the
// plain-data vocabulary compare with reflect.DeepEqual and replace
// wholesale.
func (s *Structural) Diff(from, to any) (Delta, error) {
	ch := s.diff(from, to)
	if ch == nil {
		return nil, nil
	}
	return ch, nil
}

// Clone returns a deep copy of doc.
func (s *Structural) Clone(doc any) any {
	return tree.Clone(doc)
}

func (s *Structural) diff(from, to any) *Change {
	if from == nil || to == nil {
		if from == nil && to == nil {
			return nil
		}
		return replaceChange(from, to)
	}
	if ff, fok := tree.Number(from); fok {
		if tf, tok := tree.Number(to); tok && ff == tf {
			return nil
		}
		return replaceChange(from, to)
	}
	switch f := from.(type) {
	case map[string]any:
		t, ok := to.(map[string]any)
		if !ok {
			return replaceChange(from, to)
		}
		return s.diffObject(f, t)

	case []any:
		t, ok := to.([]any)
		if !ok {
			return replaceChange(from, to)
		}
		return s.diffArray(f, t)

	case string:
		t, ok := to.(string)
		if !ok {
			return replaceChange(from, to)
		}
		if f == t {
			return nil
		}
		if !s.cfg.textDiff {
			return replaceChange(from, to)
		}
		return diffString(f, t)

	case bool:
		if t, ok := to.(bool); ok && t == f {
			return nil
		}
		return replaceChange(from, to)

	default:
		if reflect.DeepEqual(from, to) {
			return nil
		}
		return replaceChange(from, to)
	}
}

func (s *Structural) diffObject(from, to map[string]any) *Change {
	fields := make(map[string]*Change)
	for k, fv := range from {
		tv, ok := to[k]
		if !ok {
			fields[k] = deleteChange(fv)
			continue
		}
		if d := s.diff(fv, tv); d != nil {
			fields[k] = d
		}
	}
	for k, tv := range to {
		if _, ok := from[k]; ok {
			continue
		}
		fields[k] = insertChange(tv)
	}
	if len(fields) == 0 {
		return nil
	}
	return &Change{Op: OpObject, Fields: fields}
}
