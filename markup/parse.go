// CLAUDE:SUMMARY Portable markup → Document parser with defensive degradation of unknown markup.
package markup

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/notebook/richdoc"
)

// Parse builds a Document from stored markup. It never fails: escaped
// payloads are decoded once, the markup is sanitized, unknown elements
// degrade to paragraphs holding their text, and unparsable input becomes
// a single plain paragraph.
func Parse(s string) *richdoc.Document {
	s = Sanitize(DecodeEntities(s))
	return parseTree(s)
}

func parseTree(s string) *richdoc.Document {
	if strings.TrimSpace(s) == "" {
		return richdoc.New()
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return richdoc.New(richdoc.NewParagraph(richdoc.NewText(s)))
	}
	return richdoc.New(parseBlocks(nodes)...)
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// styleProp returns the lowercased value of a CSS property in the style
// attribute.
func styleProp(n *html.Node, prop string) string {
	style, ok := attr(n, "style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		k, v, found := strings.Cut(decl, ":")
		if found && strings.EqualFold(strings.TrimSpace(k), prop) {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// isInline reports whether an element belongs to inline content.
func isInline(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Strong, atom.B, atom.Em, atom.I, atom.U, atom.S, atom.Strike, atom.Del,
		atom.A, atom.Span, atom.Br, atom.Code, atom.Mark, atom.Sub, atom.Sup, atom.Small,
		atom.Abbr, atom.Cite, atom.Q, atom.Kbd, atom.Font, atom.Ins:
		return true
	}
	return false
}

func isBlank(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// parseBlocks converts a sequence of sibling nodes in block context. Runs of
// inline content are gathered into implicit paragraphs.
func parseBlocks(nodes []*html.Node) []*richdoc.Node {
	var out []*richdoc.Node
	var pending []*html.Node
	flush := func() {
		for len(pending) > 0 && isBlank(pending[len(pending)-1]) {
			pending = pending[:len(pending)-1]
		}
		if len(pending) > 0 {
			out = append(out, paragraphs(pending, nil)...)
		}
		pending = nil
	}
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			if len(pending) == 0 && isBlank(n) {
				continue
			}
			pending = append(pending, n)
		case html.ElementNode:
			if isInline(n) || n.DataAtom == atom.Img && len(pending) > 0 {
				pending = append(pending, n)
				continue
			}
			flush()
			out = append(out, parseBlock(n)...)
		}
	}
	flush()
	return out
}

func parseBlock(n *html.Node) []*richdoc.Node {
	switch n.DataAtom {
	case atom.P:
		align, _ := richdoc.ParseAlign(styleProp(n, "text-align"))
		return paragraphs(children(n), &richdoc.Node{Kind: richdoc.KindParagraph, Align: align})
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		align, _ := richdoc.ParseAlign(styleProp(n, "text-align"))
		level := int(n.Data[1] - '0')
		return paragraphs(children(n), &richdoc.Node{Kind: richdoc.KindHeading, Level: min(level, 3), Align: align})
	case atom.Ul:
		if t, _ := attr(n, "data-type"); t == "taskList" {
			return []*richdoc.Node{parseList(n, richdoc.KindTaskList)}
		}
		return []*richdoc.Node{parseList(n, richdoc.KindBulletList)}
	case atom.Ol:
		return []*richdoc.Node{parseList(n, richdoc.KindOrderedList)}
	case atom.Li:
		return parseBlocks(children(n))
	case atom.Blockquote:
		return []*richdoc.Node{richdoc.NewBlockquote(parseBlocks(children(n))...)}
	case atom.Pre:
		return []*richdoc.Node{parseCode(n)}
	case atom.Img:
		return []*richdoc.Node{parseImage(n)}
	case atom.Div, atom.Label:
		return parseBlocks(children(n))
	case atom.Br, atom.Hr, atom.Input, atom.Script, atom.Style, atom.Template:
		return nil
	default:
		text := strings.TrimSpace(textContent(n))
		if text == "" {
			return nil
		}
		return []*richdoc.Node{richdoc.NewParagraph(richdoc.NewText(text))}
	}
}

func parseList(n *html.Node, kind richdoc.Kind) *richdoc.Node {
	var items []*richdoc.Node
	var stray []*html.Node
	flushStray := func() {
		if blocks := parseBlocks(stray); len(blocks) > 0 {
			items = append(items, richdoc.NewListItem(blocks...))
		}
		stray = nil
	}
	for _, c := range children(n) {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			flushStray()
			checked, _ := attr(c, "data-checked")
			item := richdoc.NewListItem(parseBlocks(children(c))...)
			item.Checked = kind == richdoc.KindTaskList && checked == "true"
			items = append(items, item)
			continue
		}
		stray = append(stray, c)
	}
	flushStray()
	return richdoc.NewList(kind, items...)
}

func parseCode(n *html.Node) *richdoc.Node {
	lang := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Code {
			continue
		}
		class, _ := attr(c, "class")
		for _, f := range strings.Fields(class) {
			if l, ok := strings.CutPrefix(f, "language-"); ok {
				lang = l
			}
		}
	}
	return richdoc.NewCodeBlock(lang, textContent(n))
}

func parseImage(n *html.Node) *richdoc.Node {
	src, _ := attr(n, "src")
	alt, _ := attr(n, "alt")
	title, _ := attr(n, "title")
	return richdoc.NewImage(richdoc.ImageAttrs{
		Src:    src,
		Alt:    alt,
		Title:  title,
		Width:  intAttr(n, "width", richdoc.DefaultImageWidth),
		Height: intAttr(n, "height", 0),
	})
}

// intAttr parses a pixel attribute ("400" or "400px"); def is returned for
// missing or non-positive values.
func intAttr(n *html.Node, key string, def int) int {
	v, ok := attr(n, key)
	if !ok {
		return def
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	i, err := strconv.Atoi(v)
	if err != nil {
		if f, ferr := strconv.ParseFloat(v, 64); ferr == nil {
			i = int(f)
		} else {
			return def
		}
	}
	if i <= 0 {
		return def
	}
	return i
}

// paragraphs converts inline nodes into text blocks shaped like proto (a
// plain paragraph when nil). Images found inline are hoisted between blocks.
func paragraphs(nodes []*html.Node, proto *richdoc.Node) []*richdoc.Node {
	var items []*richdoc.Node
	for _, n := range nodes {
		items = appendInline(items, n, nil)
	}
	mk := func(content []*richdoc.Node) *richdoc.Node {
		if proto == nil {
			return richdoc.NewParagraph(content...)
		}
		b := *proto
		b.Content = content
		return &b
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
	if len(cur) > 0 || (len(out) == 0 && proto != nil) {
		out = append(out, mk(cur))
	}
	return out
}

func appendInline(items []*richdoc.Node, n *html.Node, marks richdoc.MarkSet) []*richdoc.Node {
	switch n.Type {
	case html.TextNode:
		return append(items, &richdoc.Node{Kind: richdoc.KindText, Text: n.Data, Marks: marks})
	case html.ElementNode:
	default:
		return items
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Input, atom.Template:
		return items
	case atom.Br:
		return append(items, &richdoc.Node{Kind: richdoc.KindText, Text: "\n", Marks: marks})
	case atom.Img:
		return append(items, parseImage(n))
	case atom.Strong, atom.B:
		marks = marks.Add(richdoc.Bold())
	case atom.Em, atom.I:
		marks = marks.Add(richdoc.Italic())
	case atom.U:
		marks = marks.Add(richdoc.Underline())
	case atom.S, atom.Strike, atom.Del:
		marks = marks.Add(richdoc.Strike())
	case atom.A:
		if href, _ := attr(n, "href"); href != "" {
			marks = marks.Add(richdoc.Link(href))
		}
	}
	if c := styleProp(n, "color"); c != "" {
		marks = marks.Add(richdoc.Color(c))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		items = appendInline(items, c, marks)
	}
	return items
}

// textContent returns the text of a subtree, skipping scripts and styles.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
