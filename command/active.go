// CLAUDE:SUMMARY Active-state queries that mirror exactly what the toggle commands would do.
package command

import (
	"strings"

	"github.com/hazyhaar/notebook/richdoc"
)

// Query names a state a toolbar can display as active.
type Query struct {
	mark  richdoc.MarkKind
	block richdoc.Kind
	level int
	align richdoc.Align
	isAln bool
}

// MarkQuery asks whether every selected character carries kind.
func MarkQuery(kind richdoc.MarkKind) Query { return Query{mark: kind} }

// BlockQuery asks whether every touched block is of kind (and level for
// headings).
func BlockQuery(kind richdoc.Kind, level int) Query { return Query{block: kind, level: level} }

// AlignQuery asks whether every touched paragraph or heading has value.
func AlignQuery(value string) Query {
	a, _ := richdoc.ParseAlign(strings.ToLower(value))
	return Query{align: a, isAln: true}
}

// IsActive evaluates q against the selection. The result is true exactly
// when the matching toggle command would remove rather than apply.
func IsActive(d *richdoc.Document, sel Selection, q Query) bool {
	if !sel.within(d) {
		return false
	}
	switch {
	case q.mark != 0:
		if sel.Empty() {
			return false
		}
		return d.MarkActive(q.mark, sel.From, sel.To)
	case q.isAln:
		seen := false
		ok := d.BlockActive(sel.From, sel.To, func(l richdoc.Leaf, _ []*richdoc.Node) bool {
			if l.Node.Kind != richdoc.KindParagraph && l.Node.Kind != richdoc.KindHeading {
				return true
			}
			seen = true
			return l.Node.Align == q.align
		})
		return ok && seen
	case q.block != 0:
		return blockActive(d, sel, q.block, q.level)
	}
	return false
}

// LinkAt returns the href shared by the whole selection.
func LinkAt(d *richdoc.Document, sel Selection) (string, bool) {
	if !sel.within(d) || sel.Empty() {
		return "", false
	}
	m, ok := d.MarkValue(richdoc.MarkLink, sel.From, sel.To)
	return m.Href, ok
}

// ColorAt returns the text color shared by the whole selection.
func ColorAt(d *richdoc.Document, sel Selection) (string, bool) {
	if !sel.within(d) || sel.Empty() {
		return "", false
	}
	m, ok := d.MarkValue(richdoc.MarkTextColor, sel.From, sel.To)
	return m.Color, ok
}
