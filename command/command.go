// CLAUDE:SUMMARY Selection-aware document commands: marks, block types, alignment, links, colors, images.
// Package command implements the mutations of a rich document under a
// selection. A Command is a total function: it never fails, and an invalid
// selection or argument returns the document unchanged.
//
// Toggle commands are the exact inverse of the matching IsActive query: a
// toggle over an active range removes, otherwise it applies to the whole
// range. Set commands (align, link, color, image attributes) are idempotent.
package command

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/richdoc"
)

// Selection is a range over the document position stream.
type Selection struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Select returns the selection between anchor and head, in either order.
func Select(anchor, head int) Selection {
	if anchor > head {
		anchor, head = head, anchor
	}
	return Selection{From: anchor, To: head}
}

// Cursor returns a collapsed selection.
func Cursor(pos int) Selection { return Selection{From: pos, To: pos} }

// All selects the whole document.
func All(d *richdoc.Document) Selection { return Selection{From: 0, To: d.Size()} }

// Empty reports whether the selection is collapsed.
func (s Selection) Empty() bool { return s.From == s.To }

func (s Selection) within(d *richdoc.Document) bool {
	return s.From >= 0 && s.From <= s.To && s.To <= d.Size()
}

// Command transforms a document under a selection.
type Command func(d *richdoc.Document, sel Selection) *richdoc.Document

// Apply runs cmds in order with the same selection.
func Apply(d *richdoc.Document, sel Selection, cmds ...Command) *richdoc.Document {
	for _, c := range cmds {
		d = c(d, sel)
	}
	return d
}

// NodeID addresses an image node by its position in the stream.
type NodeID int

// ToggleMark adds kind over the selection unless every character already
// carries it, in which case it removes it. Links and colors can only be
// removed this way; use SetLink and SetColor to apply them.
func ToggleMark(kind richdoc.MarkKind) Command {
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !sel.within(d) || sel.Empty() {
			return d
		}
		if d.MarkActive(kind, sel.From, sel.To) {
			return d.UpdateMarks(sel.From, sel.To, func(ms richdoc.MarkSet) richdoc.MarkSet {
				return ms.Remove(kind)
			})
		}
		if kind == richdoc.MarkLink || kind == richdoc.MarkTextColor {
			return d
		}
		return d.UpdateMarks(sel.From, sel.To, func(ms richdoc.MarkSet) richdoc.MarkSet {
			return ms.Add(richdoc.Mark{Kind: kind})
		})
	}
}

// SetLink applies a link to the selection. An empty href removes links;
// an href the stored markup cannot keep is ignored.
func SetLink(href string) Command {
	href = strings.TrimSpace(href)
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !sel.within(d) || sel.Empty() {
			return d
		}
		if href != "" && !markup.LinkAllowed(href) {
			return d
		}
		return d.UpdateMarks(sel.From, sel.To, func(ms richdoc.MarkSet) richdoc.MarkSet {
			if href == "" {
				return ms.Remove(richdoc.MarkLink)
			}
			return ms.Add(richdoc.Link(href))
		})
	}
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool { return hexColorRe.MatchString(s) }

// SetColor applies a text color. An empty value removes colors; anything
// that is not a hex color is ignored.
func SetColor(hex string) Command {
	hex = strings.ToLower(strings.TrimSpace(hex))
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !sel.within(d) || sel.Empty() {
			return d
		}
		if hex != "" && !ValidColor(hex) {
			return d
		}
		return d.UpdateMarks(sel.From, sel.To, func(ms richdoc.MarkSet) richdoc.MarkSet {
			if hex == "" {
				return ms.Remove(richdoc.MarkTextColor)
			}
			return ms.Add(richdoc.Color(hex))
		})
	}
}

// SetTextAlign sets the alignment of the paragraphs and headings touched
// by the selection. A collapsed selection targets the block under it.
func SetTextAlign(value string) Command {
	align, ok := richdoc.ParseAlign(strings.ToLower(strings.TrimSpace(value)))
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !ok || !sel.within(d) {
			return d
		}
		out := d
		for _, l := range d.Touched(sel.From, sel.To) {
			n := l.Node
			if n.Kind != richdoc.KindParagraph && n.Kind != richdoc.KindHeading || n.Align == align {
				continue
			}
			c := *n
			c.Align = align
			out = out.ReplaceNode(l.Path, &c)
		}
		return out
	}
}

// ToggleBlock toggles the block type of the blocks touched by the
// selection. level is only used for headings.
func ToggleBlock(kind richdoc.Kind, level int) Command {
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !sel.within(d) {
			return d
		}
		switch kind {
		case richdoc.KindParagraph:
			return setTextblocks(d, sel, toParagraph)
		case richdoc.KindHeading:
			if level < 1 || level > 3 {
				return d
			}
			if blockActive(d, sel, richdoc.KindHeading, level) {
				return setTextblocks(d, sel, toParagraph)
			}
			return setTextblocks(d, sel, func(n *richdoc.Node) *richdoc.Node { return toHeading(n, level) })
		case richdoc.KindCodeBlock:
			if blockActive(d, sel, richdoc.KindCodeBlock, 0) {
				return setTextblocks(d, sel, toParagraph)
			}
			return setTextblocks(d, sel, toCode)
		case richdoc.KindBulletList, richdoc.KindOrderedList, richdoc.KindTaskList:
			if blockActive(d, sel, kind, 0) {
				return liftFromList(d, sel)
			}
			return wrapInList(d, sel, kind)
		case richdoc.KindBlockquote:
			if blockActive(d, sel, richdoc.KindBlockquote, 0) {
				return unwrapQuote(d, sel)
			}
			return wrapInQuote(d, sel)
		default:
			return d
		}
	}
}

func setTextblocks(d *richdoc.Document, sel Selection, fn func(*richdoc.Node) *richdoc.Node) *richdoc.Document {
	out := d
	for _, l := range d.Touched(sel.From, sel.To) {
		if !l.Node.Kind.IsTextblock() {
			continue
		}
		if n := fn(l.Node); n != l.Node {
			out = out.ReplaceNode(l.Path, n)
		}
	}
	return out
}

func toParagraph(n *richdoc.Node) *richdoc.Node {
	if n.Kind == richdoc.KindParagraph {
		return n
	}
	p := &richdoc.Node{Kind: richdoc.KindParagraph, Content: n.Content}
	if n.Kind == richdoc.KindHeading {
		p.Align = n.Align
	}
	return p
}

func toHeading(n *richdoc.Node, level int) *richdoc.Node {
	if n.Kind == richdoc.KindHeading && n.Level == level {
		return n
	}
	return &richdoc.Node{Kind: richdoc.KindHeading, Level: level, Align: n.Align, Content: n.Content}
}

func toCode(n *richdoc.Node) *richdoc.Node {
	if n.Kind == richdoc.KindCodeBlock {
		return n
	}
	return richdoc.NewCodeBlock("", n.PlainText())
}

// nearestList returns the index in ancestors of the innermost list.
func nearestList(ancestors []*richdoc.Node) int {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Kind.IsList() {
			return i
		}
	}
	return -1
}

func blockActive(d *richdoc.Document, sel Selection, kind richdoc.Kind, level int) bool {
	switch kind {
	case richdoc.KindParagraph, richdoc.KindHeading, richdoc.KindCodeBlock:
		seen := false
		ok := d.BlockActive(sel.From, sel.To, func(l richdoc.Leaf, _ []*richdoc.Node) bool {
			if l.Node.Kind == richdoc.KindImage {
				return true
			}
			seen = true
			return l.Node.Kind == kind && (kind != richdoc.KindHeading || l.Node.Level == level)
		})
		return ok && seen
	case richdoc.KindBulletList, richdoc.KindOrderedList, richdoc.KindTaskList:
		return d.BlockActive(sel.From, sel.To, func(_ richdoc.Leaf, anc []*richdoc.Node) bool {
			i := nearestList(anc)
			return i >= 0 && anc[i].Kind == kind
		})
	case richdoc.KindBlockquote:
		return d.BlockActive(sel.From, sel.To, func(_ richdoc.Leaf, anc []*richdoc.Node) bool {
			for _, a := range anc {
				if a.Kind == richdoc.KindBlockquote {
					return true
				}
			}
			return false
		})
	}
	return false
}

// pathLess orders paths in document order.
func pathLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func pathKey(p []int) string {
	var sb strings.Builder
	for _, i := range p {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

type listGroup struct {
	path        []int
	first, last int
}

// liftFromList moves the touched items out of their innermost list. The
// untouched items before and after stay in their own lists.
func liftFromList(d *richdoc.Document, sel Selection) *richdoc.Document {
	groups := map[string]*listGroup{}
	for _, l := range d.Touched(sel.From, sel.To) {
		anc := d.Ancestors(l.Path)
		i := nearestList(anc)
		if i < 0 {
			continue
		}
		listPath := l.Path[:i+1]
		item := l.Path[i+1]
		key := pathKey(listPath)
		g, ok := groups[key]
		if !ok {
			g = &listGroup{path: append([]int(nil), listPath...), first: item, last: item}
			groups[key] = g
		}
		g.first, g.last = min(g.first, item), max(g.last, item)
	}
	ordered := make([]*listGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return pathLess(ordered[j].path, ordered[i].path) })

	out := d
	for _, g := range ordered {
		list := out.NodeAt(g.path)
		if list == nil {
			continue
		}
		items := list.Content
		var repl []*richdoc.Node
		if g.first > 0 {
			repl = append(repl, list.WithContent(append([]*richdoc.Node(nil), items[:g.first]...)))
		}
		for _, it := range items[g.first : g.last+1] {
			repl = append(repl, it.Content...)
		}
		if g.last+1 < len(items) {
			repl = append(repl, list.WithContent(append([]*richdoc.Node(nil), items[g.last+1:]...)))
		}
		idx := g.path[len(g.path)-1]
		out = out.Splice(g.path[:len(g.path)-1], idx, idx+1, repl...)
	}
	return out
}

// wrapInList converts the touched blocks' innermost lists to kind and wraps
// the touched blocks that are in no list at all.
func wrapInList(d *richdoc.Document, sel Selection, kind richdoc.Kind) *richdoc.Document {
	touched := d.Touched(sel.From, sel.To)
	out := d

	converted := map[string]bool{}
	for _, l := range touched {
		anc := d.Ancestors(l.Path)
		i := nearestList(anc)
		if i < 0 || anc[i].Kind == kind {
			continue
		}
		key := pathKey(l.Path[:i+1])
		if converted[key] {
			continue
		}
		converted[key] = true
		c := *anc[i]
		c.Kind = kind
		out = out.ReplaceNode(l.Path[:i+1], &c)
	}

	type run struct {
		parent      []int
		first, last int
	}
	var runs []*run
	for _, l := range touched {
		if nearestList(d.Ancestors(l.Path)) >= 0 {
			continue
		}
		parent := l.Path[:len(l.Path)-1]
		idx := l.Path[len(l.Path)-1]
		if n := len(runs); n > 0 && pathKey(runs[n-1].parent) == pathKey(parent) && runs[n-1].last+1 == idx {
			runs[n-1].last = idx
			continue
		}
		runs = append(runs, &run{parent: append([]int(nil), parent...), first: idx, last: idx})
	}
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		blocks := out.NodeAt(r.parent)
		var siblings []*richdoc.Node
		if blocks == nil {
			siblings = out.Blocks()
		} else {
			siblings = blocks.Content
		}
		items := make([]*richdoc.Node, 0, r.last-r.first+1)
		for _, b := range siblings[r.first : r.last+1] {
			items = append(items, richdoc.NewListItem(b))
		}
		out = out.Splice(r.parent, r.first, r.last+1, richdoc.NewList(kind, items...))
	}
	return out
}

// wrapInQuote wraps the top-level blocks touched by the selection in one
// blockquote. Quotes already inside the range are lifted first so quotes
// never nest.
func wrapInQuote(d *richdoc.Document, sel Selection) *richdoc.Document {
	touched := d.Touched(sel.From, sel.To)
	if len(touched) == 0 {
		return d
	}
	first, last := touched[0].Path[0], touched[len(touched)-1].Path[0]
	var moved []*richdoc.Node
	for _, b := range d.Blocks()[first : last+1] {
		moved = append(moved, liftQuotes(b)...)
	}
	return d.Splice(nil, first, last+1, richdoc.NewBlockquote(moved...))
}

// liftQuotes replaces every blockquote in n's subtree by its children.
// Subtrees without quotes are returned as is.
func liftQuotes(n *richdoc.Node) []*richdoc.Node {
	if !n.Kind.IsContainer() {
		return []*richdoc.Node{n}
	}
	var content []*richdoc.Node
	changed := false
	for _, c := range n.Content {
		lifted := liftQuotes(c)
		if len(lifted) != 1 || lifted[0] != c {
			changed = true
		}
		content = append(content, lifted...)
	}
	if n.Kind == richdoc.KindBlockquote {
		return content
	}
	if !changed {
		return []*richdoc.Node{n}
	}
	return []*richdoc.Node{n.WithContent(content)}
}

// unwrapQuote removes every blockquote enclosing a touched block, outer
// ones included, so nothing under the selection stays quoted.
func unwrapQuote(d *richdoc.Document, sel Selection) *richdoc.Document {
	var paths [][]int
	seen := map[string]bool{}
	for _, l := range d.Touched(sel.From, sel.To) {
		anc := d.Ancestors(l.Path)
		for i := len(anc) - 1; i >= 0; i-- {
			if anc[i].Kind != richdoc.KindBlockquote {
				continue
			}
			p := l.Path[:i+1]
			if k := pathKey(p); !seen[k] {
				seen[k] = true
				paths = append(paths, append([]int(nil), p...))
			}
		}
	}
	// Last in document order first, inner before outer: earlier paths stay
	// valid while later ones are unwrapped.
	sort.Slice(paths, func(i, j int) bool { return pathLess(paths[j], paths[i]) })
	out := d
	for _, p := range paths {
		out = out.Unwrap(p)
	}
	return out
}

func clampWidth(w int) int {
	if w <= 0 {
		return richdoc.DefaultImageWidth
	}
	return max(w, richdoc.MinImageWidth)
}

// InsertImage inserts an image block after the block holding the start of
// the selection. Repeating the command right away inserts nothing: an
// identical image already follows the block. Sources the stored markup
// cannot keep (ftp, blob or file URLs) insert nothing either.
func InsertImage(src string, width, height int) Command {
	attrs := richdoc.ImageAttrs{Src: src, Width: clampWidth(width), Height: max(height, 0)}
	return func(d *richdoc.Document, sel Selection) *richdoc.Document {
		if !sel.within(d) || !markup.ImageSrcAllowed(src) {
			return d
		}
		img := richdoc.NewImage(attrs)
		l, _, ok := d.Resolve(sel.From)
		if !ok {
			return d.InsertAt(nil, len(d.Blocks()), img)
		}
		parent := l.Path[:len(l.Path)-1]
		idx := l.Path[len(l.Path)-1] + 1
		if l.Node.Kind == richdoc.KindImage && l.Node.Image == attrs {
			return d
		}
		var siblings []*richdoc.Node
		if len(parent) == 0 {
			siblings = d.Blocks()
		} else {
			siblings = d.NodeAt(parent).Content
		}
		if idx < len(siblings) && siblings[idx].Kind == richdoc.KindImage && siblings[idx].Image == attrs {
			return d
		}
		return d.InsertAt(parent, idx, img)
	}
}

// UpdateImageAttrs sets the size of the image at id. width <= 0 keeps the
// current width, height <= 0 means "auto".
func UpdateImageAttrs(id NodeID, width, height int) Command {
	return func(d *richdoc.Document, _ Selection) *richdoc.Document {
		l, ok := d.ImageAt(int(id))
		if !ok {
			return d
		}
		attrs := l.Node.Image
		if width > 0 {
			attrs.Width = max(width, richdoc.MinImageWidth)
		}
		attrs.Height = max(height, 0)
		return d.SetImageAttrs(int(id), attrs)
	}
}
