// CLAUDE:SUMMARY Document → portable markup (tag per node, attribute per mark) serializer.
// Package markup converts rich documents to and from the portable markup
// used for persistence: an HTML subset with one tag per node and one tag or
// attribute per mark.
//
//	paragraph    <p style="text-align: center">
//	heading      <h1> <h2> <h3>
//	lists        <ul> <ol> <ul data-type="taskList"> with <li data-checked="true">
//	blockquote   <blockquote>
//	codeBlock    <pre><code class="language-go">
//	image        <img src alt title width height>
//	marks        <a href> <span style="color: #hex"> <strong> <em> <u> <s>
//
// Parse(Serialize(d)) is structurally equal to d for every document built
// through the command package.
package markup

import (
	"html"
	"strconv"
	"strings"

	"github.com/hazyhaar/notebook/richdoc"
)

// Serialize renders d as portable markup.
func Serialize(d *richdoc.Document) string {
	var sb strings.Builder
	for _, b := range d.Blocks() {
		writeBlock(&sb, b)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, n *richdoc.Node) {
	switch n.Kind {
	case richdoc.KindParagraph:
		sb.WriteString("<p" + alignAttr(n.Align) + ">")
		writeInline(sb, n.Content)
		sb.WriteString("</p>")
	case richdoc.KindHeading:
		tag := "h" + strconv.Itoa(n.Level)
		sb.WriteString("<" + tag + alignAttr(n.Align) + ">")
		writeInline(sb, n.Content)
		sb.WriteString("</" + tag + ">")
	case richdoc.KindBulletList:
		writeList(sb, "<ul>", "</ul>", n, false)
	case richdoc.KindOrderedList:
		writeList(sb, "<ol>", "</ol>", n, false)
	case richdoc.KindTaskList:
		writeList(sb, `<ul data-type="taskList">`, "</ul>", n, true)
	case richdoc.KindListItem:
		writeList(sb, "<ul>", "</ul>", richdoc.NewList(richdoc.KindBulletList, n), false)
	case richdoc.KindBlockquote:
		sb.WriteString("<blockquote>")
		for _, c := range n.Content {
			writeBlock(sb, c)
		}
		sb.WriteString("</blockquote>")
	case richdoc.KindCodeBlock:
		sb.WriteString("<pre><code")
		if n.Language != "" {
			sb.WriteString(` class="language-` + html.EscapeString(n.Language) + `"`)
		}
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(n.PlainText()))
		sb.WriteString("</code></pre>")
	case richdoc.KindImage:
		writeImage(sb, n.Image)
	case richdoc.KindText:
		sb.WriteString("<p>")
		writeInline(sb, []*richdoc.Node{n})
		sb.WriteString("</p>")
	default:
		sb.WriteString("<p>" + html.EscapeString(n.PlainText()) + "</p>")
	}
}

func writeList(sb *strings.Builder, open, close string, n *richdoc.Node, task bool) {
	sb.WriteString(open)
	for _, item := range n.Content {
		switch {
		case task && item.Checked:
			sb.WriteString(`<li data-checked="true">`)
		case task:
			sb.WriteString(`<li data-checked="false">`)
		default:
			sb.WriteString("<li>")
		}
		for _, c := range item.Content {
			writeBlock(sb, c)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString(close)
}

func writeImage(sb *strings.Builder, a richdoc.ImageAttrs) {
	sb.WriteString(`<img src="` + html.EscapeString(a.Src) + `"`)
	if a.Alt != "" {
		sb.WriteString(` alt="` + html.EscapeString(a.Alt) + `"`)
	}
	if a.Title != "" {
		sb.WriteString(` title="` + html.EscapeString(a.Title) + `"`)
	}
	sb.WriteString(` width="` + strconv.Itoa(a.ResolvedWidth()) + `"`)
	if !a.AutoHeight() {
		sb.WriteString(` height="` + strconv.Itoa(a.Height) + `"`)
	}
	sb.WriteString(">")
}

func alignAttr(a richdoc.Align) string {
	if a == richdoc.AlignDefault {
		return ""
	}
	return ` style="text-align: ` + string(a) + `"`
}

// writeInline nests marks in a fixed order: link, color, bold, italic,
// underline, strike.
func writeInline(sb *strings.Builder, nodes []*richdoc.Node) {
	for _, n := range nodes {
		if n.Kind != richdoc.KindText {
			continue
		}
		var closers []string
		if m, ok := n.Marks.Get(richdoc.MarkLink); ok {
			sb.WriteString(`<a href="` + html.EscapeString(m.Href) + `">`)
			closers = append(closers, "</a>")
		}
		if m, ok := n.Marks.Get(richdoc.MarkTextColor); ok {
			sb.WriteString(`<span style="color: ` + html.EscapeString(m.Color) + `">`)
			closers = append(closers, "</span>")
		}
		for _, t := range []struct {
			kind richdoc.MarkKind
			tag  string
		}{
			{richdoc.MarkBold, "strong"},
			{richdoc.MarkItalic, "em"},
			{richdoc.MarkUnderline, "u"},
			{richdoc.MarkStrike, "s"},
		} {
			if n.Marks.Has(t.kind) {
				sb.WriteString("<" + t.tag + ">")
				closers = append(closers, "</"+t.tag+">")
			}
		}
		sb.WriteString(html.EscapeString(n.Text))
		for i := len(closers) - 1; i >= 0; i-- {
			sb.WriteString(closers[i])
		}
	}
}
