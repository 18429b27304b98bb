package libdiff

import (
	"strings"
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffString produces a rune-run edit script for two unequal strings.
// Each operation run takes one output slot; equal runs take one slot
// per rune. When the script is larger than half the smaller string,
// the whole string is replaced instead.
func diffString(from, to string) *Change {
	diffCfg := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := diffCfg.DiffMain(from, to, doMultiLine)
	elems := map[int]*Change{}
	diffSize := 0

	ri := 0
	i := 0
	for i < len(diffs) {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffEqual:
			ri += utf8.RuneCountInString(diff.Text)
			i++

		case diffpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				ins := diffs[i+1].Text
				elems[ri] = replaceChange(diff.Text, ins)
				diffSize += max(
					utf8.RuneCountInString(diff.Text),
					utf8.RuneCountInString(ins),
				)
				ri++
				i += 2
				continue
			}
			elems[ri] = deleteChange(diff.Text)
			diffSize += utf8.RuneCountInString(diff.Text)
			ri++
			i++

		case diffpatch.DiffInsert:
			elems[ri] = insertChange(diff.Text)
			diffSize += utf8.RuneCountInString(diff.Text)
			ri++
			i++
		}
	}
	if len(elems) == 0 {
		return nil
	}
	if diffSize > min(utf8.RuneCountInString(from), utf8.RuneCountInString(to))/2 {
		return replaceChange(from, to)
	}
	return &Change{Op: OpText, Elems: elems}
}
