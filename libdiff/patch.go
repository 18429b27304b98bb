package libdiff

import (
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/rewind/tree"
)

// Patch applies a structural delta to doc and returns the patched
// value. The document is never modified; unchanged subtrees are deep
// copied into the result. Patching verifies that the values a delta
// removes or replaces match the document and fails otherwise.
func (s *Structural) Patch(doc any, delta Delta) (any, error) {
	if delta == nil {
		return tree.Clone(doc), nil
	}
	ch, ok := delta.(*Change)
	if !ok {
		return nil, fmt.Errorf("structural differ got delta of type %T", delta)
	}
	return s.patch(doc, ch, "$")
}

func (s *Structural) patch(doc any, ch *Change, at string) (any, error) {
	if ch == nil {
		return tree.Clone(doc), nil
	}
	switch ch.Op {
	case OpInsert:
		return tree.Clone(ch.To), nil
	case OpDelete:
		if !tree.Equal(doc, ch.From) {
			return nil, fmt.Errorf("cannot patch, unexpected value at %s", at)
		}
		return nil, nil
	case OpReplace:
		if !tree.Equal(doc, ch.From) {
			return nil, fmt.Errorf("cannot patch, unexpected value at %s", at)
		}
		return tree.Clone(ch.To), nil
	case OpObject:
		return s.patchObject(doc, ch, at)
	case OpArray:
		return s.patchArray(doc, ch, at)
	case OpText:
		return s.patchText(doc, ch, at)
	default:
		return nil, fmt.Errorf("unknown op %q at %s", ch.Op, at)
	}
}

func (s *Structural) patchObject(doc any, ch *Change, at string) (any, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot patch, expected object at %s", at)
	}
	res := make(map[string]any, len(m)+len(ch.Fields))
	for k, v := range m {
		res[k] = tree.Clone(v)
	}
	for _, k := range slices.Sorted(maps.Keys(ch.Fields)) {
		f := ch.Fields[k]
		fat := at + "." + k
		switch f.Op {
		case OpInsert:
			res[k] = tree.Clone(f.To)
		case OpDelete:
			cur, present := res[k]
			if !present || !tree.Equal(cur, f.From) {
				return nil, fmt.Errorf("cannot patch, unexpected value at %s", fat)
			}
			delete(res, k)
		default:
			cur, present := res[k]
			if !present {
				return nil, fmt.Errorf("cannot patch, missing key at %s", fat)
			}
			pv, err := s.patch(cur, f, fat)
			if err != nil {
				return nil, err
			}
			res[k] = pv
		}
	}
	return res, nil
}

func (s *Structural) patchArray(doc any, ch *Change, at string) (any, error) {
	arr, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot patch, expected array at %s", at)
	}
	res := make([]any, 0, len(arr))
	fi, di := 0, 0
	seen := 0
	for seen <= len(ch.Elems) {
		op := ch.Elems[di]
		if op == nil {
			if seen == len(ch.Elems) {
				for ; fi < len(arr); fi++ {
					res = append(res, tree.Clone(arr[fi]))
				}
				break
			}
			if fi >= len(arr) {
				return nil, fmt.Errorf("cannot patch, document too short at %s", at)
			}
			res = append(res, tree.Clone(arr[fi]))
			fi++
			di++
			continue
		}
		seen++
		oat := fmt.Sprintf("%s[%d]", at, di)
		switch op.Op {
		case OpInsert:
			res = append(res, tree.Clone(op.To))
			di++
		case OpDelete:
			if fi >= len(arr) || !tree.Equal(arr[fi], op.From) {
				return nil, fmt.Errorf("cannot patch, unexpected value at %s", oat)
			}
			fi++
			di++
		case OpReplace:
			if fi >= len(arr) || !tree.Equal(arr[fi], op.From) {
				return nil, fmt.Errorf("cannot patch, unexpected value at %s", oat)
			}
			res = append(res, tree.Clone(op.To))
			fi++
			di++
		default:
			if fi >= len(arr) {
				return nil, fmt.Errorf("cannot patch, document too short at %s", oat)
			}
			pv, err := s.patch(arr[fi], op, oat)
			if err != nil {
				return nil, err
			}
			res = append(res, pv)
			fi++
			di++
		}
	}
	return res, nil
}

func (s *Structural) patchText(doc any, ch *Change, at string) (any, error) {
	str, ok := doc.(string)
	if !ok {
		return nil, fmt.Errorf("cannot patch, expected string at %s", at)
	}
	txt := []rune(str)
	res := make([]rune, 0, len(txt))
	fi, di := 0, 0
	seen := 0
	for seen <= len(ch.Elems) {
		op := ch.Elems[di]
		if op == nil {
			if seen == len(ch.Elems) {
				res = append(res, txt[fi:]...)
				break
			}
			if fi >= len(txt) {
				return nil, fmt.Errorf("cannot patch, document too short at %s", at)
			}
			res = append(res, txt[fi])
			fi++
			di++
			continue
		}
		seen++
		switch op.Op {
		case OpInsert:
			ins, ok := op.To.(string)
			if !ok {
				return nil, fmt.Errorf("invalid text delta, got %T at %s", op.To, at)
			}
			res = append(res, []rune(ins)...)
			di++
		case OpDelete:
			del, ok := op.From.(string)
			if !ok {
				return nil, fmt.Errorf("invalid text delta, got %T at %s", op.From, at)
			}
			drunes := []rune(del)
			if !runesHavePrefix(txt[fi:], drunes) {
				return nil, fmt.Errorf("cannot patch, unexpected text %q, expected %q at %s",
					string(txt[fi:]), del, at)
			}
			fi += len(drunes)
			di++
		case OpReplace:
			from, fok := op.From.(string)
			to, tok := op.To.(string)
			if !fok || !tok {
				return nil, fmt.Errorf("invalid text delta at %s", at)
			}
			frunes := []rune(from)
			if !runesHavePrefix(txt[fi:], frunes) {
				return nil, fmt.Errorf("cannot patch, unexpected text %q, expected %q at %s",
					string(txt[fi:]), from, at)
			}
			res = append(res, []rune(to)...)
			fi += len(frunes)
			di++
		default:
			return nil, fmt.Errorf("unexpected op %q in text delta at %s", op.Op, at)
		}
	}
	return string(res), nil
}

func runesHavePrefix(txt, prefix []rune) bool {
	if len(txt) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if txt[i] != r {
			return false
		}
	}
	return true
}
