// CLAUDE:SUMMARY Copy-on-write tree edits: splice, replace, insert, wrap, unwrap, mark and image updates.
package richdoc

// Splice replaces the children [from, to) of the node at parentPath (nil
// for the document root) with repl. Only the nodes along parentPath are
// copied. An invalid path or range returns d unchanged.
func (d *Document) Splice(parentPath []int, from, to int, repl ...*Node) *Document {
	root := &Node{Content: d.blocks}
	newRoot, ok := spliceIn(root, parentPath, from, to, repl)
	if !ok {
		return d
	}
	return build(Normalize(newRoot.Content))
}

func spliceIn(n *Node, path []int, from, to int, repl []*Node) (*Node, bool) {
	if len(path) == 0 {
		if from < 0 || to > len(n.Content) || from > to {
			return nil, false
		}
		content := make([]*Node, 0, len(n.Content)-(to-from)+len(repl))
		content = append(content, n.Content[:from]...)
		content = append(content, repl...)
		content = append(content, n.Content[to:]...)
		return n.WithContent(content), true
	}
	i := path[0]
	if i < 0 || i >= len(n.Content) {
		return nil, false
	}
	child, ok := spliceIn(n.Content[i], path[1:], from, to, repl)
	if !ok {
		return nil, false
	}
	content := make([]*Node, len(n.Content))
	copy(content, n.Content)
	content[i] = child
	return n.WithContent(content), true
}

// ReplaceNode swaps the node at path for repl.
func (d *Document) ReplaceNode(path []int, repl *Node) *Document {
	if len(path) == 0 || repl == nil {
		return d
	}
	i := path[len(path)-1]
	return d.Splice(path[:len(path)-1], i, i+1, repl)
}

// InsertAt inserts nodes as children of parentPath at index.
func (d *Document) InsertAt(parentPath []int, index int, nodes ...*Node) *Document {
	return d.Splice(parentPath, index, index, nodes...)
}

// Wrap moves the children [from, to) of parentPath into wrapper, which
// takes their place. wrapper's own content is ignored.
func (d *Document) Wrap(parentPath []int, from, to int, wrapper *Node) *Document {
	parent := d.parent(parentPath)
	if parent == nil || from < 0 || to > len(parent) || from >= to {
		return d
	}
	moved := make([]*Node, to-from)
	copy(moved, parent[from:to])
	return d.Splice(parentPath, from, to, wrapper.WithContent(moved))
}

// Unwrap replaces the container at path with its children.
func (d *Document) Unwrap(path []int) *Document {
	n := d.NodeAt(path)
	if n == nil || len(path) == 0 || !n.Kind.IsContainer() {
		return d
	}
	var children []*Node
	for _, c := range n.Content {
		if c.Kind == KindListItem {
			children = append(children, c.Content...)
			continue
		}
		children = append(children, c)
	}
	i := path[len(path)-1]
	return d.Splice(path[:len(path)-1], i, i+1, children...)
}

func (d *Document) parent(path []int) []*Node {
	if len(path) == 0 {
		return d.blocks
	}
	n := d.NodeAt(path)
	if n == nil {
		return nil
	}
	return n.Content
}

// UpdateMarks rewrites the mark set of every character in [from, to),
// splitting runs at the range boundaries. Code blocks are skipped.
func (d *Document) UpdateMarks(from, to int, fn func(MarkSet) MarkSet) *Document {
	if from >= to {
		return d
	}
	out := d
	for _, l := range d.Leaves() {
		if l.Node.Kind != KindParagraph && l.Node.Kind != KindHeading {
			continue
		}
		a, b := from-l.Start, to-l.Start
		if b <= 0 || a >= l.Len() {
			continue
		}
		var content []*Node
		off := 0
		for _, c := range l.Node.Content {
			r := []rune(c.Text)
			lo := min(max(a-off, 0), len(r))
			hi := min(max(b-off, 0), len(r))
			if lo > 0 {
				content = append(content, &Node{Kind: KindText, Text: string(r[:lo]), Marks: c.Marks})
			}
			if lo < hi {
				content = append(content, &Node{Kind: KindText, Text: string(r[lo:hi]), Marks: fn(c.Marks)})
			}
			if hi < len(r) {
				content = append(content, &Node{Kind: KindText, Text: string(r[hi:]), Marks: c.Marks})
			}
			off += len(r)
		}
		out = out.ReplaceNode(l.Path, l.Node.WithContent(mergeText(content)))
	}
	return out
}

// SetImageAttrs replaces the attributes of the image at pos.
func (d *Document) SetImageAttrs(pos int, attrs ImageAttrs) *Document {
	l, ok := d.ImageAt(pos)
	if !ok {
		return d
	}
	if l.Node.Image == attrs {
		return d
	}
	n := l.Node.clone()
	n.Image = attrs
	return d.ReplaceNode(l.Path, n)
}
