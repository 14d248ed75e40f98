// CLAUDE:SUMMARY Markdown interchange: Document → Markdown through html-to-markdown, Markdown → Document through goldmark.
// Package markdown converts rich documents to and from Markdown, used as an
// authoring and interchange convenience, never for persistence.
//
// The mapping is deliberately lossy. Rendering drops what Markdown cannot
// express:
//   - underline and text color (the text is kept, the style is not)
//   - paragraph and heading alignment
//   - image width and height
//   - the checked state of task items (they render as plain bullets)
//
// Parsing drops Markdown constructs with no document node: thematic breaks
// disappear, tables and other unknown blocks degrade to paragraphs of text,
// inline raw HTML is skipped. HTML blocks go through the markup parser.
// Links and images whose URL the markup policy rejects keep only their text.
package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/richdoc"
)

var (
	convOnce sync.Once
	conv     *converter.Converter

	md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.TaskList))
)

func mdConverter() *converter.Converter {
	convOnce.Do(func() {
		conv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				strikethrough.NewStrikethroughPlugin(),
			),
		)
	})
	return conv
}

// Render converts d to Markdown.
func Render(d *richdoc.Document) (string, error) {
	if d.IsEmpty() {
		return "", nil
	}
	out, err := mdConverter().ConvertString(markup.Serialize(d))
	if err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}

// Parse builds a Document from Markdown source. It never fails.
func Parse(src string) *richdoc.Document {
	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))
	return richdoc.New(blocks(root, source)...)
}

func blocks(parent ast.Node, src []byte) []*richdoc.Node {
	var out []*richdoc.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Heading:
			out = append(out, textblocks(n, src, richdoc.NewHeading(n.Level))...)
		case *ast.Paragraph, *ast.TextBlock:
			out = append(out, textblocks(n, src, nil)...)
		case *ast.List:
			out = append(out, list(n, src))
		case *ast.Blockquote:
			out = append(out, richdoc.NewBlockquote(blocks(n, src)...))
		case *ast.FencedCodeBlock:
			out = append(out, richdoc.NewCodeBlock(string(n.Language(src)), lines(n, src)))
		case *ast.CodeBlock:
			out = append(out, richdoc.NewCodeBlock("", lines(n, src)))
		case *ast.HTMLBlock:
			raw := lines(n, src)
			if n.HasClosure() {
				raw += string(n.ClosureLine.Value(src))
			}
			out = append(out, markup.Parse(raw).Blocks()...)
		case *ast.ThematicBreak:
		default:
			if t := strings.TrimSpace(plainText(n, src)); t != "" {
				out = append(out, richdoc.NewParagraph(richdoc.NewText(t)))
			}
		}
	}
	return out
}

func list(n *ast.List, src []byte) *richdoc.Node {
	kind := richdoc.KindBulletList
	if n.IsOrdered() {
		kind = richdoc.KindOrderedList
	}
	var items []*richdoc.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item := richdoc.NewListItem(blocks(c, src)...)
		if box := checkbox(c); box != nil {
			kind = richdoc.KindTaskList
			item.Checked = box.IsChecked
		}
		items = append(items, item)
	}
	return richdoc.NewList(kind, items...)
}

// checkbox returns the task checkbox of a list item, found at the start of
// its first text block.
func checkbox(item ast.Node) *extast.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
		return box
	}
	return nil
}

func lines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// textblocks converts inline children into text blocks shaped like proto,
// hoisting images between them.
func textblocks(n ast.Node, src []byte, proto *richdoc.Node) []*richdoc.Node {
	items := inline(n, src, nil, nil)
	mk := func(content []*richdoc.Node) *richdoc.Node {
		if proto == nil {
			return richdoc.NewParagraph(content...)
		}
		return proto.WithContent(content)
	}
	var out, cur []*richdoc.Node
	for _, it := range items {
		if it.Kind == richdoc.KindImage {
			if len(cur) > 0 {
				out = append(out, mk(cur))
				cur = nil
			}
			out = append(out, it)
			continue
		}
		cur = append(cur, it)
	}
	if len(cur) > 0 || len(out) == 0 {
		out = append(out, mk(cur))
	}
	return out
}

func inline(parent ast.Node, src []byte, marks richdoc.MarkSet, out []*richdoc.Node) []*richdoc.Node {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			out = append(out, &richdoc.Node{Kind: richdoc.KindText, Text: textValue(n, src), Marks: marks})
			switch {
			case n.HardLineBreak():
				out = append(out, &richdoc.Node{Kind: richdoc.KindText, Text: "\n", Marks: marks})
			case n.SoftLineBreak():
				out = append(out, &richdoc.Node{Kind: richdoc.KindText, Text: " ", Marks: marks})
			}
		case *ast.String:
			out = append(out, &richdoc.Node{Kind: richdoc.KindText, Text: string(n.Value), Marks: marks})
		case *ast.Emphasis:
			m := richdoc.Italic()
			if n.Level >= 2 {
				m = richdoc.Bold()
			}
			out = inline(n, src, marks.Add(m), out)
		case *extast.Strikethrough:
			out = inline(n, src, marks.Add(richdoc.Strike()), out)
		case *ast.Link:
			out = inline(n, src, withLink(marks, unescape(n.Destination)), out)
		case *ast.AutoLink:
			out = append(out, &richdoc.Node{
				Kind:  richdoc.KindText,
				Text:  string(n.Label(src)),
				Marks: withLink(marks, string(n.URL(src))),
			})
		case *ast.Image:
			dest := unescape(n.Destination)
			if !markup.ImageSrcAllowed(dest) {
				continue
			}
			out = append(out, richdoc.NewImage(richdoc.ImageAttrs{
				Src:   dest,
				Alt:   plainText(n, src),
				Title: unescape(n.Title),
			}))
		case *extast.TaskCheckBox, *ast.RawHTML:
		default:
			out = inline(n, src, marks, out)
		}
	}
	return out
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.WriteString(textValue(t, src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// withLink adds a link mark unless the stored markup could not keep href,
// in which case the text stays plain.
func withLink(marks richdoc.MarkSet, href string) richdoc.MarkSet {
	if !markup.LinkAllowed(href) {
		return marks
	}
	return marks.Add(richdoc.Link(href))
}

// textValue returns the text of n the way goldmark's HTML renderer reads it:
// backslash escapes and character references are decoded, except in raw
// text such as code spans.
func textValue(n *ast.Text, src []byte) string {
	v := n.Segment.Value(src)
	if n.IsRaw() {
		return string(v)
	}
	return unescape(v)
}

func unescape(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}
