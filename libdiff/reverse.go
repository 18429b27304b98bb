package libdiff

import (
	"fmt"

	"github.com/signadot/rewind/tree"
)

// Reverse returns the inverse of a structural delta: inserts become
// deletes, deletes become inserts, replaces swap from and to, and
// nested operations reverse in place. Slot keys are stable under
// reversal, so the result patches the output of the original delta
// back to its input.
func (s *Structural) Reverse(delta Delta) (Delta, error) {
	if delta == nil {
		return nil, nil
	}
	ch, ok := delta.(*Change)
	if !ok {
		return nil, fmt.Errorf("structural differ got delta of type %T", delta)
	}
	rev, err := reverseChange(ch)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func reverseChange(ch *Change) (*Change, error) {
	switch ch.Op {
	case OpInsert:
		return &Change{Op: OpDelete, From: tree.Clone(ch.To)}, nil
	case OpDelete:
		return &Change{Op: OpInsert, To: tree.Clone(ch.From)}, nil
	case OpReplace:
		return &Change{
			Op:   OpReplace,
			From: tree.Clone(ch.To),
			To:   tree.Clone(ch.From),
		}, nil
	case OpObject:
		fields := make(map[string]*Change, len(ch.Fields))
		for k, f := range ch.Fields {
			rf, err := reverseChange(f)
			if err != nil {
				return nil, err
			}
			fields[k] = rf
		}
		return &Change{Op: OpObject, Fields: fields}, nil
	case OpArray, OpText:
		elems := make(map[int]*Change, len(ch.Elems))
		for i, e := range ch.Elems {
			re, err := reverseChange(e)
			if err != nil {
				return nil, err
			}
			elems[i] = re
		}
		return &Change{Op: ch.Op, Elems: elems}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", ch.Op)
	}
}
