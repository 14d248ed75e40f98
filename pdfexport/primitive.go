// CLAUDE:SUMMARY Layout primitives produced by the structural walk: text blocks, list groups, image blocks, header chips.
// Package pdfexport renders notes to a fixed-layout paginated PDF without
// any visual surface. The markup tree is walked depth first into layout
// primitives (Build), which a gofpdf Renderer then paginates on A4 pages.
//
//	paragraph        TextBlock, 8pt bottom margin
//	h1 / h2 / h3     TextBlock, bold, 22/18/14pt, 10/8/6pt bottom margin
//	strong em s u    run styles, composed when nested
//	a                blue underlined run
//	span color       explicit run color, else inherited
//	img              ImageBlock, width attribute or 250, centered
//	ul / ol          ListGroup, one "• " or "N. " line per item
//	anything else    TextBlock holding the plain text
//
// Text is set in the core PDF fonts, which only encode cp1252. Characters
// outside it (CJK, emoji) are not rendered; the renderer logs how many at
// debug level.
package pdfexport

import "github.com/hazyhaar/notebook/richdoc"

// Primitive is one block-level layout element.
type Primitive interface {
	primitive()
}

// Run is a span of text sharing one style.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Mono      bool
	Color     string // "#rrggbb", empty means inherited
	Link      string
}

// TextBlock is a paragraph-like block of runs. FontSize 0 means the
// content font size.
type TextBlock struct {
	Runs         []Run
	FontSize     float64
	Bold         bool
	MarginBottom float64
	Align        richdoc.Align
	Mono         bool
	Indent       float64
}

// ListGroup is a list rendered as one prefixed line per item.
type ListGroup struct {
	Lines        []string
	MarginBottom float64
	Indent       float64
}

// ImageBlock is a block-level image.
type ImageBlock struct {
	Src      string
	Alt      string
	Width    float64
	Height   float64 // 0: derived from the aspect ratio
	Centered bool
}

func (*TextBlock) primitive()  {}
func (*ListGroup) primitive()  {}
func (*ImageBlock) primitive() {}

// Text returns the concatenated text of the block.
func (b *TextBlock) Text() string {
	var s string
	for _, r := range b.Runs {
		s += r.Text
	}
	return s
}

// Chip is a tag pill in the page header.
type Chip struct {
	Label string
}

// Header is the fixed block above the body: "Title - <title>" then the
// tag chips.
type Header struct {
	Title string
	Tags  []Chip
}
