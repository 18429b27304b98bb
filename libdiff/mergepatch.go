package libdiff

import (
	"encoding/json"
	"fmt"

	"github.com/signadot/rewind/tree"

	jsonpatch "github.com/evanphx/json-patch"
)

// MergePatch is an alternate Differ encoding deltas as RFC 7386 JSON
// merge patches. A merge patch alone is not invertible, so a delta
// carries one patch per direction and Reverse swaps them.
//
// Merge patches replace arrays wholesale and cannot distinguish a null
// value from an absent key, so MergePatch trades precision for
// interoperability with JSON tooling. Patched values come back in JSON
// shapes: numbers as float64, records as map[string]any.
type MergePatch struct{}

// MergeDelta is the serialized form of a MergePatch delta.
type MergeDelta struct {
	Forward  json.RawMessage `json:"forward" yaml:"forward"`
	Backward json.RawMessage `json:"backward" yaml:"backward"`
}

// NewMergePatch returns a merge-patch differ.
func NewMergePatch() *MergePatch {
	return &MergePatch{}
}

var _ Differ = (*MergePatch)(nil)

func (m *MergePatch) Diff(from, to any) (Delta, error) {
	if tree.Equal(from, to) {
		return nil, nil
	}
	fromJSON, err := json.Marshal(from)
	if err != nil {
		return nil, fmt.Errorf("encoding diff source: %w", err)
	}
	toJSON, err := json.Marshal(to)
	if err != nil {
		return nil, fmt.Errorf("encoding diff target: %w", err)
	}
	fwd, err := jsonpatch.CreateMergePatch(fromJSON, toJSON)
	if err != nil {
		return nil, fmt.Errorf("creating merge patch: %w", err)
	}
	bwd, err := jsonpatch.CreateMergePatch(toJSON, fromJSON)
	if err != nil {
		return nil, fmt.Errorf("creating reverse merge patch: %w", err)
	}
	return &MergeDelta{Forward: fwd, Backward: bwd}, nil
}

func (m *MergePatch) Patch(doc any, delta Delta) (any, error) {
	if delta == nil {
		return tree.Clone(doc), nil
	}
	md, ok := delta.(*MergeDelta)
	if !ok {
		return nil, fmt.Errorf("merge-patch differ got delta of type %T", delta)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	resJSON, err := jsonpatch.MergePatch(docJSON, md.Forward)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	var res any
	if err := json.Unmarshal(resJSON, &res); err != nil {
		return nil, fmt.Errorf("decoding patched document: %w", err)
	}
	return res, nil
}

func (m *MergePatch) Reverse(delta Delta) (Delta, error) {
	if delta == nil {
		return nil, nil
	}
	md, ok := delta.(*MergeDelta)
	if !ok {
		return nil, fmt.Errorf("merge-patch differ got delta of type %T", delta)
	}
	return &MergeDelta{Forward: md.Backward, Backward: md.Forward}, nil
}

func (m *MergePatch) Clone(doc any) any {
	return tree.Clone(doc)
}
