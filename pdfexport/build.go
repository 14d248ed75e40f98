// CLAUDE:SUMMARY Depth-first walk of the markup tree into layout primitives, with plain-text fallback for unknown tags.
package pdfexport

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/richdoc"
)

const (
	paragraphMargin = 8
	quoteIndent     = 15
	linkColor       = "#0000ff"
)

var headingStyles = map[atom.Atom]struct{ size, margin float64 }{
	atom.H1: {22, 10},
	atom.H2: {18, 8},
	atom.H3: {14, 6},
	atom.H4: {14, 6},
	atom.H5: {14, 6},
	atom.H6: {14, 6},
}

var hiddenStyle = regexp.MustCompile(`(?i)display\s*:\s*none|visibility\s*:\s*hidden`)

var spaceRe = regexp.MustCompile(`[ \t\r\n\f]+`)

// BuildDocument lays out a document through its markup form.
func BuildDocument(d *richdoc.Document) []Primitive {
	return Build(markup.Serialize(d))
}

// Build walks stored markup into layout primitives. Escaped payloads are
// decoded once first. Unknown elements never drop their text.
func Build(s string) []Primitive {
	s = markup.DecodeEntities(s)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return []Primitive{&TextBlock{Runs: []Run{{Text: s}}, MarginBottom: paragraphMargin}}
	}
	b := &builder{}
	b.blocks(nodes)
	return b.out
}

type builder struct {
	out    []Primitive
	indent float64
}

// style is the inherited inline style while walking runs.
type style struct {
	bold, italic, underline, strike, mono bool
	color, link                          string
}

func (st style) run(text string) Run {
	return Run{
		Text: text, Bold: st.bold, Italic: st.italic, Underline: st.underline,
		Strike: st.strike, Mono: st.mono, Color: st.color, Link: st.link,
	}
}

func inlineElem(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Strong, atom.B, atom.Em, atom.I, atom.U, atom.S, atom.Strike, atom.Del,
		atom.A, atom.Span, atom.Font, atom.Br, atom.Code, atom.Mark, atom.Small,
		atom.Sub, atom.Sup, atom.Abbr, atom.Cite, atom.Q, atom.Kbd, atom.Ins:
		return true
	}
	return false
}

func (b *builder) blocks(nodes []*html.Node) {
	var pending []*html.Node
	flush := func() {
		if len(pending) > 0 {
			b.textBlock(pending, &TextBlock{MarginBottom: paragraphMargin})
		}
		pending = nil
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode:
			pending = append(pending, n)
		case n.Type == html.ElementNode && (inlineElem(n) || n.DataAtom == atom.Img && len(pending) > 0):
			pending = append(pending, n)
		case n.Type == html.ElementNode:
			flush()
			b.block(n)
		}
	}
	flush()
}

func (b *builder) block(n *html.Node) {
	if v, _ := attrVal(n, "style"); hiddenStyle.MatchString(v) {
		return
	}
	switch n.DataAtom {
	case atom.P:
		b.textBlock(childNodes(n), &TextBlock{MarginBottom: paragraphMargin, Align: alignOf(n)})
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		hs := headingStyles[n.DataAtom]
		b.textBlock(childNodes(n), &TextBlock{FontSize: hs.size, Bold: true, MarginBottom: hs.margin, Align: alignOf(n)})
	case atom.Ul, atom.Ol:
		b.list(n)
	case atom.Blockquote:
		b.indent += quoteIndent
		b.blocks(childNodes(n))
		b.indent -= quoteIndent
	case atom.Pre:
		text := strings.TrimSuffix(textOf(n, false), "\n")
		b.out = append(b.out, &TextBlock{Runs: []Run{{Text: text, Mono: true}}, Mono: true, MarginBottom: paragraphMargin, Indent: b.indent})
	case atom.Img:
		b.out = append(b.out, imageBlock(n))
	case atom.Div, atom.Label, atom.Section, atom.Article, atom.Main, atom.Body, atom.Li:
		b.blocks(childNodes(n))
	case atom.Br, atom.Hr, atom.Input, atom.Script, atom.Style, atom.Template, atom.Noscript:
	default:
		text := strings.TrimSpace(spaceRe.ReplaceAllString(textOf(n, true), " "))
		if text != "" {
			b.out = append(b.out, &TextBlock{Runs: []Run{{Text: text}}, MarginBottom: paragraphMargin, Indent: b.indent})
		}
	}
}

// textBlock emits proto filled with the runs of nodes. Images found among
// the runs split the block and are emitted between the parts.
func (b *builder) textBlock(nodes []*html.Node, proto *TextBlock) {
	var items []any
	for _, n := range nodes {
		items = appendRuns(items, n, style{})
	}
	var cur []Run
	emit := func() {
		if runs := trimRuns(cur); len(runs) > 0 {
			tb := *proto
			tb.Runs = runs
			tb.Indent = b.indent
			b.out = append(b.out, &tb)
		}
		cur = nil
	}
	for _, it := range items {
		switch v := it.(type) {
		case Run:
			cur = append(cur, v)
		case *ImageBlock:
			emit()
			b.out = append(b.out, v)
		}
	}
	emit()
}

func appendRuns(items []any, n *html.Node, st style) []any {
	switch n.Type {
	case html.TextNode:
		text := n.Data
		if !st.mono {
			text = spaceRe.ReplaceAllString(text, " ")
		}
		return append(items, st.run(text))
	case html.ElementNode:
	default:
		return items
	}
	if v, _ := attrVal(n, "style"); hiddenStyle.MatchString(v) {
		return items
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Input, atom.Template:
		return items
	case atom.Br:
		return append(items, st.run("\n"))
	case atom.Img:
		return append(items, imageBlock(n))
	case atom.Strong, atom.B:
		st.bold = true
	case atom.Em, atom.I:
		st.italic = true
	case atom.U:
		st.underline = true
	case atom.S, atom.Strike, atom.Del:
		st.strike = true
	case atom.Code:
		st.mono = true
	case atom.A:
		if href, ok := attrVal(n, "href"); ok {
			st.link = href
		}
		st.color, st.underline = linkColor, true
	case atom.Font:
		if c, ok := attrVal(n, "color"); ok {
			if hex, ok := normalizeColor(c); ok {
				st.color = hex
			}
		}
	}
	if c := cssProp(n, "color"); c != "" {
		if hex, ok := normalizeColor(c); ok {
			st.color = hex
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		items = appendRuns(items, c, st)
	}
	return items
}

// trimRuns drops leading and trailing blanks of a block and merges
// neighbouring runs of the same style.
func trimRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if sameStyle(*last, r) {
				last.Text += r.Text
				continue
			}
		}
		out = append(out, r)
	}
	for len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " ")
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		last := &out[len(out)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}

func sameStyle(a, b Run) bool {
	a.Text, b.Text = "", ""
	return a == b
}

func (b *builder) list(n *html.Node) {
	task := false
	if t, _ := attrVal(n, "data-type"); t == "taskList" {
		task = true
	}
	start := 1
	if v, ok := attrVal(n, "start"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			start = i
		}
	}
	g := &ListGroup{MarginBottom: paragraphMargin, Indent: b.indent}
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		var prefix string
		switch {
		case task:
			prefix = "[ ] "
			if v, _ := attrVal(c, "data-checked"); v == "true" {
				prefix = "[x] "
			}
		case n.DataAtom == atom.Ol:
			prefix = strconv.Itoa(start+i) + ". "
		default:
			prefix = "• "
		}
		text := strings.TrimSpace(spaceRe.ReplaceAllString(textOf(c, true), " "))
		g.Lines = append(g.Lines, prefix+text)
		i++
	}
	if len(g.Lines) > 0 {
		b.out = append(b.out, g)
	}
}

func imageBlock(n *html.Node) *ImageBlock {
	src, _ := attrVal(n, "src")
	alt, _ := attrVal(n, "alt")
	return &ImageBlock{
		Src:      src,
		Alt:      alt,
		Width:    pxAttr(n, "width", richdoc.DefaultImageWidth),
		Height:   pxAttr(n, "height", 0),
		Centered: true,
	}
}

func pxAttr(n *html.Node, key string, def float64) float64 {
	v, ok := attrVal(n, key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func alignOf(n *html.Node) richdoc.Align {
	a, _ := richdoc.ParseAlign(cssProp(n, "text-align"))
	return a
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func cssProp(n *html.Node, prop string) string {
	v, ok := attrVal(n, "style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(v, ";") {
		k, val, found := strings.Cut(decl, ":")
		if found && strings.EqualFold(strings.TrimSpace(k), prop) {
			return strings.ToLower(strings.TrimSpace(val))
		}
	}
	return ""
}

// textOf returns the text of a subtree. Line breaks become newlines when
// breaks is false and spaces otherwise.
func textOf(n *html.Node, breaks bool) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				if breaks {
					sb.WriteByte(' ')
				} else {
					sb.WriteByte('\n')
				}
				return
			case atom.P, atom.Li, atom.Div, atom.Tr, atom.Td, atom.Th:
				if breaks && sb.Len() > 0 {
					sb.WriteByte(' ')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
