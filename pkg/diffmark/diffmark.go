// Package diffmark builds char-level before/after highlight for a pair of
// field values.
package diffmark

import (
	"html"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Highlight diffs old against new and returns both values as escaped HTML
// with deletions wrapped in <del> and insertions in <ins>.
func Highlight(old, new string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var left, right strings.Builder
	for _, d := range diffs {
		escaped := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			left.WriteString("<del>" + escaped + "</del>")
		case diffmatchpatch.DiffInsert:
			right.WriteString("<ins>" + escaped + "</ins>")
		default:
			left.WriteString(escaped)
			right.WriteString(escaped)
		}
	}
	return left.String(), right.String()
}
