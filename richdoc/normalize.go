// CLAUDE:SUMMARY Tree normalization: text run merging, stray inline wrapping, list/container invariants.
package richdoc

// Normalize enforces the structural invariants of a block sequence:
//   - stray text at block level is wrapped into a paragraph
//   - adjacent text runs with equal marks are merged, empty runs dropped
//   - code blocks hold a single unmarked text run
//   - lists hold only list items, containers are never empty
//   - images always carry an explicit width
//   - unknown kinds degrade to a paragraph holding their plain text
//
// Nodes that already satisfy the invariants are returned as is, so
// normalizing an edited tree keeps the untouched subtrees shared.
func Normalize(nodes []*Node) []*Node {
	return normalizeBlocks(nodes)
}

func normalizeBlocks(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	var pending []*Node
	flush := func() {
		if len(pending) > 0 {
			out = append(out, &Node{Kind: KindParagraph, Content: mergeText(pending)})
			pending = nil
		}
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		switch n.Kind {
		case KindText:
			pending = append(pending, n)
		case KindParagraph, KindHeading:
			flush()
			out = append(out, normalizeTextblock(n))
		case KindCodeBlock:
			flush()
			out = append(out, normalizeCode(n))
		case KindImage:
			flush()
			if n.Image.Width <= 0 {
				n = n.clone()
				n.Image.Width = DefaultImageWidth
			}
			out = append(out, n)
		case KindBulletList, KindOrderedList, KindTaskList:
			flush()
			if l := normalizeList(n); l != nil {
				out = append(out, l)
			}
		case KindListItem:
			flush()
			out = append(out, normalizeBlocks(n.Content)...)
		case KindBlockquote:
			flush()
			out = append(out, normalizeContainer(n))
		default:
			flush()
			out = append(out, &Node{Kind: KindParagraph, Content: mergeText([]*Node{{Kind: KindText, Text: n.PlainText()}})})
		}
	}
	flush()
	return out
}

func normalizeTextblock(n *Node) *Node {
	content := mergeText(n.Content)
	level := n.Level
	if n.Kind == KindHeading {
		level = clampLevel(level)
	} else {
		level = 0
	}
	if sameNodes(content, n.Content) && level == n.Level {
		return n
	}
	c := n.clone()
	c.Content = content
	c.Level = level
	return c
}

func normalizeCode(n *Node) *Node {
	if len(n.Content) == 0 && n.Align == AlignDefault {
		return n
	}
	if len(n.Content) == 1 && n.Content[0].Kind == KindText && len(n.Content[0].Marks) == 0 &&
		n.Content[0].Text != "" && n.Align == AlignDefault {
		return n
	}
	c := n.clone()
	c.Align = AlignDefault
	c.Content = nil
	if text := n.PlainText(); text != "" {
		c.Content = []*Node{{Kind: KindText, Text: text}}
	}
	return c
}

func normalizeList(n *Node) *Node {
	task := n.Kind == KindTaskList
	items := make([]*Node, 0, len(n.Content))
	for _, child := range n.Content {
		if child == nil {
			continue
		}
		if child.Kind == KindListItem {
			item := normalizeContainer(child)
			if !task && item.Checked {
				item = item.clone()
				item.Checked = false
			}
			items = append(items, item)
			continue
		}
		items = append(items, normalizeContainer(&Node{Kind: KindListItem, Content: []*Node{child}}))
	}
	if len(items) == 0 {
		return nil
	}
	if sameNodes(items, n.Content) {
		return n
	}
	return n.WithContent(items)
}

func normalizeContainer(n *Node) *Node {
	content := normalizeBlocks(n.Content)
	if len(content) == 0 {
		content = []*Node{{Kind: KindParagraph}}
	}
	if sameNodes(content, n.Content) {
		return n
	}
	return n.WithContent(content)
}

// mergeText keeps only text runs, drops empty ones and merges neighbours
// with equal marks.
func mergeText(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n == nil || n.Kind != KindText || n.Text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Marks.Equal(n.Marks) {
			prev := out[len(out)-1]
			out[len(out)-1] = &Node{Kind: KindText, Text: prev.Text + n.Text, Marks: prev.Marks}
			continue
		}
		if len(n.Marks) == 0 && n.Marks != nil {
			n = &Node{Kind: KindText, Text: n.Text}
		}
		out = append(out, n)
	}
	return out
}

func sameNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
