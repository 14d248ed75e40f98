// CLAUDE:SUMMARY Node kinds, block attributes and node constructors of the rich document tree.
// Package richdoc is the in-memory model of formatted note content: a tree of
// block nodes (paragraphs, headings, lists, quotes, code, images) whose
// leaves are text runs carrying marks.
//
// Documents are immutable. Every edit returns a new Document that shares the
// untouched subtrees with the previous one, so a renderer holding an older
// snapshot never observes a partial edit. Nodes reachable from a Document
// must not be modified in place.
//
// Positions address a flat stream of leaf blocks: a text block of L runes
// occupies [start, start+L] and consumes L+1 positions, an image consumes 1.
package richdoc

import "unicode/utf8"

// Kind identifies a node variant. The set is closed: every consumer switches
// over all kinds.
type Kind uint8

const (
	KindParagraph Kind = iota + 1
	KindHeading
	KindBulletList
	KindOrderedList
	KindTaskList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindImage
	KindText
)

var kindNames = map[Kind]string{
	KindParagraph:   "paragraph",
	KindHeading:     "heading",
	KindBulletList:  "bulletList",
	KindOrderedList: "orderedList",
	KindTaskList:    "taskList",
	KindListItem:    "listItem",
	KindBlockquote:  "blockquote",
	KindCodeBlock:   "codeBlock",
	KindImage:       "image",
	KindText:        "text",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// IsTextblock reports whether nodes of this kind hold inline text directly.
func (k Kind) IsTextblock() bool {
	return k == KindParagraph || k == KindHeading || k == KindCodeBlock
}

// IsList reports whether k is one of the three list kinds.
func (k Kind) IsList() bool {
	return k == KindBulletList || k == KindOrderedList || k == KindTaskList
}

// IsContainer reports whether nodes of this kind own block children.
func (k Kind) IsContainer() bool {
	return k.IsList() || k == KindListItem || k == KindBlockquote
}

// IsLeaf reports whether a block of this kind is a leaf of the position stream.
func (k Kind) IsLeaf() bool {
	return k.IsTextblock() || k == KindImage
}

// Align is the text alignment of a paragraph or heading.
type Align string

const (
	AlignDefault Align = ""
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// ParseAlign accepts the CSS text-align keywords. "left" and "" both mean
// the default alignment.
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "", "left", "start":
		return AlignDefault, true
	case "center":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	case "justify":
		return AlignJustify, true
	}
	return AlignDefault, false
}

// DefaultImageWidth is the width of an image without an explicit width.
const DefaultImageWidth = 250

// MinImageWidth is the smallest width an image can be resized to.
const MinImageWidth = 50

// ImageAttrs are the persisted attributes of an image node.
type ImageAttrs struct {
	Src   string
	Alt   string
	Title string
	Width int // 0 = default (250)
	// Height 0 means "auto": derived from the intrinsic aspect ratio.
	Height int
}

// ResolvedWidth returns the positive width to use at render time.
func (a ImageAttrs) ResolvedWidth() int {
	if a.Width <= 0 {
		return DefaultImageWidth
	}
	return a.Width
}

// AutoHeight reports whether the height is derived.
func (a ImageAttrs) AutoHeight() bool { return a.Height <= 0 }

// Node is one element of the document tree.
type Node struct {
	Kind Kind

	Level    int    // heading: 1..3
	Align    Align  // paragraph, heading
	Checked  bool   // list item inside a task list
	Language string // code block

	Text  string  // text
	Marks MarkSet // text

	Image ImageAttrs // image

	Content []*Node
}

// NewText returns a text node. Marks are canonicalized.
func NewText(s string, marks ...Mark) *Node {
	var ms MarkSet
	for _, m := range marks {
		ms = ms.Add(m)
	}
	return &Node{Kind: KindText, Text: s, Marks: ms}
}

// NewParagraph returns a paragraph holding the given inline nodes.
func NewParagraph(inline ...*Node) *Node {
	return &Node{Kind: KindParagraph, Content: inline}
}

// NewHeading returns a heading of the given level, clamped to 1..3.
func NewHeading(level int, inline ...*Node) *Node {
	return &Node{Kind: KindHeading, Level: clampLevel(level), Content: inline}
}

// NewCodeBlock returns a code block. Code blocks carry no marks.
func NewCodeBlock(language, code string) *Node {
	n := &Node{Kind: KindCodeBlock, Language: language}
	if code != "" {
		n.Content = []*Node{{Kind: KindText, Text: code}}
	}
	return n
}

// NewList returns a list of kind k (bullet, ordered or task).
func NewList(k Kind, items ...*Node) *Node {
	return &Node{Kind: k, Content: items}
}

// NewListItem returns a list item holding block children.
func NewListItem(blocks ...*Node) *Node {
	return &Node{Kind: KindListItem, Content: blocks}
}

// NewTaskItem returns a task list item.
func NewTaskItem(checked bool, blocks ...*Node) *Node {
	return &Node{Kind: KindListItem, Checked: checked, Content: blocks}
}

// NewBlockquote returns a blockquote holding block children.
func NewBlockquote(blocks ...*Node) *Node {
	return &Node{Kind: KindBlockquote, Content: blocks}
}

// NewImage returns an image node.
func NewImage(attrs ImageAttrs) *Node {
	return &Node{Kind: KindImage, Image: attrs}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}

// clone returns a shallow copy. The Content slice is shared and must be
// replaced, not modified, by the caller.
func (n *Node) clone() *Node {
	c := *n
	return &c
}

// WithContent returns a copy of n with new children.
func (n *Node) WithContent(content []*Node) *Node {
	c := n.clone()
	c.Content = content
	return c
}

// TextLen returns the number of runes held by a text block.
func (n *Node) TextLen() int {
	if n.Kind == KindText {
		return utf8.RuneCountInString(n.Text)
	}
	total := 0
	for _, c := range n.Content {
		if c.Kind == KindText {
			total += utf8.RuneCountInString(c.Text)
		}
	}
	return total
}

// PlainText returns the concatenated text of the subtree. Blocks are
// separated by a newline.
func (n *Node) PlainText() string {
	if n.Kind == KindText {
		return n.Text
	}
	if n.Kind.IsTextblock() {
		var b []byte
		for _, c := range n.Content {
			b = append(b, c.Text...)
		}
		return string(b)
	}
	var out []byte
	for i, c := range n.Content {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, c.PlainText()...)
	}
	return string(out)
}

// Equal reports deep structural equality.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.Kind != o.Kind || n.Level != o.Level || n.Align != o.Align ||
		n.Checked != o.Checked || n.Language != o.Language || n.Text != o.Text ||
		n.Image != o.Image || !n.Marks.Equal(o.Marks) || len(n.Content) != len(o.Content) {
		return false
	}
	for i := range n.Content {
		if !n.Content[i].Equal(o.Content[i]) {
			return false
		}
	}
	return true
}
