// CLAUDE:SUMMARY Immutable Document root, leaf-block position stream and structural queries.
package richdoc

import "strings"

// Document is an immutable sequence of block nodes.
type Document struct {
	blocks []*Node
	size   int
}

// New returns a normalized Document holding the given blocks.
func New(blocks ...*Node) *Document {
	return build(Normalize(blocks))
}

func build(blocks []*Node) *Document {
	d := &Document{blocks: blocks}
	d.size = 0
	for _, l := range d.Leaves() {
		d.size += l.span()
	}
	return d
}

// Blocks returns the top-level blocks. The slice is a copy; the nodes are
// shared and must not be modified.
func (d *Document) Blocks() []*Node {
	out := make([]*Node, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// IsEmpty reports whether the document holds no content: no blocks, or a
// single empty paragraph.
func (d *Document) IsEmpty() bool {
	if len(d.blocks) == 0 {
		return true
	}
	return len(d.blocks) == 1 && d.blocks[0].Kind == KindParagraph && len(d.blocks[0].Content) == 0
}

// Size returns the length of the position stream.
func (d *Document) Size() int { return d.size }

// Text returns the plain text of the document, one line per block.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, b := range d.blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.PlainText())
	}
	return sb.String()
}

// Equal reports structural equality of two documents.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.blocks) != len(b.blocks) {
		return false
	}
	for i := range a.blocks {
		if !a.blocks[i].Equal(b.blocks[i]) {
			return false
		}
	}
	return true
}

// Leaf is a leaf block located in the position stream.
type Leaf struct {
	Node  *Node
	Path  []int // child indexes from the document root
	Start int
}

// Len is the number of character positions of the leaf (0 for images).
func (l Leaf) Len() int {
	if l.Node.Kind == KindImage {
		return 0
	}
	return l.Node.TextLen()
}

// End is the last position inside the leaf.
func (l Leaf) End() int { return l.Start + l.Len() }

func (l Leaf) span() int { return l.Len() + 1 }

// Leaves returns every leaf block in document order.
func (d *Document) Leaves() []Leaf {
	var out []Leaf
	pos := 0
	var walk func(nodes []*Node, path []int)
	walk = func(nodes []*Node, path []int) {
		for i, n := range nodes {
			p := append(append([]int(nil), path...), i)
			if n.Kind.IsLeaf() {
				l := Leaf{Node: n, Path: p, Start: pos}
				out = append(out, l)
				pos += l.span()
				continue
			}
			walk(n.Content, p)
		}
	}
	walk(d.blocks, nil)
	return out
}

// Touched returns the leaves a selection [from, to] touches. A collapsed
// selection touches the single leaf containing it.
func (d *Document) Touched(from, to int) []Leaf {
	if from > to {
		from, to = to, from
	}
	var out []Leaf
	for _, l := range d.Leaves() {
		if l.Node.Kind == KindImage {
			if (from == to && from == l.Start) || (from <= l.Start && to > l.Start) {
				out = append(out, l)
			}
			continue
		}
		if from <= l.End() && to >= l.Start {
			out = append(out, l)
		}
	}
	return out
}

// Resolve returns the leaf containing pos and the offset inside it.
func (d *Document) Resolve(pos int) (Leaf, int, bool) {
	for _, l := range d.Leaves() {
		if pos >= l.Start && pos <= l.End() {
			return l, pos - l.Start, true
		}
	}
	return Leaf{}, 0, false
}

// NodeAt returns the node at path, or nil.
func (d *Document) NodeAt(path []int) *Node {
	nodes := d.blocks
	var n *Node
	for _, i := range path {
		if i < 0 || i >= len(nodes) {
			return nil
		}
		n = nodes[i]
		nodes = n.Content
	}
	return n
}

// Ancestors returns the nodes enclosing path, outermost first, excluding
// the node at path itself.
func (d *Document) Ancestors(path []int) []*Node {
	var out []*Node
	for i := 1; i < len(path); i++ {
		if n := d.NodeAt(path[:i]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ImageAt returns the image leaf at pos.
func (d *Document) ImageAt(pos int) (Leaf, bool) {
	for _, l := range d.Leaves() {
		if l.Node.Kind == KindImage && l.Start == pos {
			return l, true
		}
	}
	return Leaf{}, false
}

// CoveredRuns calls fn for every text run slice covered by [from, to) in
// text blocks other than code blocks. Code blocks carry no marks.
func (d *Document) CoveredRuns(from, to int, fn func(text *Node, covered string)) {
	if from >= to {
		return
	}
	for _, l := range d.Leaves() {
		if l.Node.Kind == KindImage || l.Node.Kind == KindCodeBlock {
			continue
		}
		a, b := from-l.Start, to-l.Start
		if b <= 0 || a >= l.Len() {
			continue
		}
		off := 0
		for _, c := range l.Node.Content {
			r := []rune(c.Text)
			lo, hi := max(a-off, 0), min(b-off, len(r))
			if lo < hi {
				fn(c, string(r[lo:hi]))
			}
			off += len(r)
		}
	}
}

// MarkActive reports whether every character in [from, to) carries a mark
// of kind k. An empty or markless range is inactive.
func (d *Document) MarkActive(k MarkKind, from, to int) bool {
	seen, all := false, true
	d.CoveredRuns(from, to, func(t *Node, _ string) {
		seen = true
		if !t.Marks.Has(k) {
			all = false
		}
	})
	return seen && all
}

// MarkValue returns the mark of kind k shared by every character in
// [from, to), for links and colors.
func (d *Document) MarkValue(k MarkKind, from, to int) (Mark, bool) {
	var found Mark
	seen, same := false, true
	d.CoveredRuns(from, to, func(t *Node, _ string) {
		m, ok := t.Marks.Get(k)
		if !ok {
			same = false
			return
		}
		if !seen {
			found, seen = m, true
			return
		}
		if m != found {
			same = false
		}
	})
	return found, seen && same
}

// BlockActive reports whether every leaf touched by [from, to] satisfies
// pred. pred receives the leaf and its ancestors, outermost first.
func (d *Document) BlockActive(from, to int, pred func(l Leaf, ancestors []*Node) bool) bool {
	touched := d.Touched(from, to)
	if len(touched) == 0 {
		return false
	}
	for _, l := range touched {
		if !pred(l, d.Ancestors(l.Path)) {
			return false
		}
	}
	return true
}
