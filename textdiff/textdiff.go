// Package textdiff renders colored text diffs of two document
// encodings, for showing the effect of an update interactively.
package textdiff

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Strings diffs from and to, painting insertions green and deletions
// red when colored is set, and +/- markers otherwise.
func Strings(from, to string, colored bool) string {
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, true)
	diffs = diffCfg.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffEqual:
			sb.WriteString(diff.Text)
		case diffpatch.DiffInsert:
			if colored {
				sb.WriteString(color.GreenString("%s", diff.Text))
			} else {
				sb.WriteString("{+" + diff.Text + "+}")
			}
		case diffpatch.DiffDelete:
			if colored {
				sb.WriteString(color.RedString("%s", diff.Text))
			} else {
				sb.WriteString("[-" + diff.Text + "-]")
			}
		}
	}
	return sb.String()
}
