package libdiff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/rewind/tree"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffArray aligns the two sequences and produces per-slot operations.
//
//  1. each element is summarized: scalars as <kind>-<value>, containers
//     by kind alone
//  2. the two summary sequences are diffed as rune strings
//  3. aligned elements with matching summaries recurse, so containers
//     and multi-line strings still get fine-grained sub-deltas
//  4. a delete run followed by an insert run pairs up element-wise
//     into replace operations; the overhang keeps plain deletes or
//     inserts
//
// Slot keys count one slot per operation and one per aligned element,
// which keeps the encoding stable under reversal.
func (s *Structural) diffArray(from, to []any) *Change {
	m := map[string]rune{}
	fromRunes := summaryRunes(m, from)
	toRunes := summaryRunes(m, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	elems := make(map[int]*Change, len(diffs))

	fi, ti, ri := 0, 0, 0
	i := 0
	for i < len(diffs) {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffEqual:
			for range diff.Text {
				if di := s.diff(from[fi], to[ti]); di != nil {
					elems[ri] = di
				}
				ri++
				fi++
				ti++
			}
			i++

		case diffpatch.DiffDelete:
			delCount := len([]rune(diff.Text))
			insCount := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				insCount = len([]rune(diffs[i+1].Text))
			}
			pairs := min(delCount, insCount)
			for range pairs {
				elems[ri] = replaceChange(from[fi], to[ti])
				ri++
				fi++
				ti++
			}
			for k := pairs; k < delCount; k++ {
				elems[ri] = deleteChange(from[fi])
				ri++
				fi++
			}
			for k := pairs; k < insCount; k++ {
				elems[ri] = insertChange(to[ti])
				ri++
				ti++
			}
			if insCount > 0 {
				i += 2
			} else {
				i++
			}

		case diffpatch.DiffInsert:
			for range diff.Text {
				elems[ri] = insertChange(to[ti])
				ri++
				ti++
			}
			i++
		}
	}
	if len(elems) == 0 {
		return nil
	}
	return &Change{Op: OpArray, Elems: elems}
}

func summaryRunes(m map[string]rune, vals []any) []rune {
	rs := make([]rune, len(vals))
	for i, v := range vals {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = summaryRune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

// summaryRune skips the surrogate range, which is not representable in
// the strings the rune differ builds internally.
func summaryRune(n int) rune {
	if n >= 0xD800 {
		n += 0x800
	}
	return rune(n)
}

func summaryStr(v any) string {
	if v == nil {
		return "null"
	}
	if f, ok := tree.Number(v); ok {
		return "number-" + strconv.FormatFloat(f, 'f', -1, 64)
	}
	switch t := v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case bool:
		return "bool-" + strconv.FormatBool(t)
	case string:
		if strings.Contains(t, "\n") {
			return "string/m"
		}
		return "string-" + t
	default:
		return fmt.Sprintf("opaque-%T/%v", v, v)
	}
}
