// CLAUDE:SUMMARY gofpdf page writer: header title and tag chips, styled runs, list lines, centered data-URI images, pagination.
package pdfexport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/hazyhaar/notebook/richdoc"
)

const (
	imageMargin = 10
	chipColor   = "#1976d2"
)

// Page is one export: the header and the laid out body. Background and
// FontFamily override the renderer config when set.
type Page struct {
	Header
	Body       []Primitive
	Background string
	FontFamily string
}

// Renderer paginates primitives into a PDF.
type Renderer struct {
	cfg Config
}

// NewRenderer returns a renderer for cfg.
func NewRenderer(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg}
}

// Config returns the effective configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Render writes p as a PDF to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	cfg := r.cfg
	if p.Background != "" {
		cfg.Background = p.Background
	}
	if p.FontFamily != "" {
		cfg.FontFamily = p.FontFamily
	}

	pdf := gofpdf.New("P", "pt", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	pdf.SetTitle(p.Title, true)

	bg := parseRGB(cfg.Background, rgb{255, 255, 255})
	if bg != (rgb{255, 255, 255}) {
		pdf.SetHeaderFunc(func() {
			pw, ph := pdf.GetPageSize()
			pdf.SetFillColor(bg.r, bg.g, bg.b)
			pdf.Rect(0, 0, pw, ph, "F")
		})
	}
	pdf.AddPage()

	pw := &pageWriter{
		pdf:    pdf,
		cfg:    cfg,
		family: FontFamily(cfg.FontFamily),
	}
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	pw.tr = func(s string) string {
		for _, c := range s {
			if _, ok := charmap.Windows1252.EncodeRune(c); !ok {
				pw.lost++
			}
		}
		return cp1252(s)
	}
	pw.header(p.Header)
	for _, prim := range p.Body {
		switch v := prim.(type) {
		case *TextBlock:
			pw.text(v)
		case *ListGroup:
			pw.list(v)
		case *ImageBlock:
			pw.image(v)
		}
		if pdf.Err() {
			break
		}
	}
	if pdf.Err() {
		return fmt.Errorf("pdfexport: render: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdfexport: output: %w", err)
	}
	if pw.lost > 0 {
		r.cfg.Logger.Debug("pdfexport: characters outside cp1252 not rendered", "title", p.Title, "count", pw.lost)
	}
	r.cfg.Logger.Debug("pdfexport: rendered", "title", p.Title, "pages", pdf.PageNo(), "primitives", len(p.Body))
	return nil
}

type pageWriter struct {
	pdf    *gofpdf.Fpdf
	cfg    Config
	family string
	tr     func(string) string
	lost   int // runes the core fonts cannot encode
	images int
}

func (w *pageWriter) setColor(hex string) {
	c := parseRGB(hex, rgb{0, 0, 0})
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pageWriter) header(h Header) {
	pdf := w.pdf
	pdf.SetFont(w.family, "B", w.cfg.TitleSize)
	w.setColor("")
	pdf.MultiCell(0, w.cfg.TitleSize*1.2, w.tr("Title - "+h.Title), "", "L", false)
	pdf.Ln(10)
	if len(h.Tags) == 0 {
		return
	}

	pageW, _ := pdf.GetPageSize()
	chipH := w.cfg.ChipFontSize + 8
	fill := parseRGB(chipColor, rgb{})
	pdf.SetFont(w.family, "", w.cfg.ChipFontSize)
	pdf.SetFillColor(fill.r, fill.g, fill.b)
	pdf.SetTextColor(255, 255, 255)
	for _, tag := range h.Tags {
		label := w.tr(tag.Label)
		chipW := pdf.GetStringWidth(label) + 16
		if pdf.GetX()+chipW > pageW-w.cfg.Margin && pdf.GetX() > w.cfg.Margin {
			pdf.Ln(chipH + 4)
		}
		pdf.CellFormat(chipW, chipH, label, "", 0, "C", true, 0, "")
		pdf.SetX(pdf.GetX() + 8)
	}
	pdf.Ln(chipH + 20)
	w.setColor("")
}

func fontStyle(bold, italic, underline, strike bool) string {
	var sb strings.Builder
	if bold {
		sb.WriteByte('B')
	}
	if italic {
		sb.WriteByte('I')
	}
	if underline {
		sb.WriteByte('U')
	}
	if strike {
		sb.WriteByte('S')
	}
	return sb.String()
}

func alignStr(a richdoc.Align) string {
	switch a {
	case richdoc.AlignCenter:
		return "C"
	case richdoc.AlignRight:
		return "R"
	case richdoc.AlignJustify:
		return "J"
	}
	return "L"
}

// text writes a block. Left aligned blocks keep their run styles; other
// alignments are laid out as one cell in the block style.
func (w *pageWriter) text(b *TextBlock) {
	pdf := w.pdf
	size := b.FontSize
	if size <= 0 {
		size = w.cfg.FontSize
	}
	lh := size * w.cfg.LineHeight
	left := w.cfg.Margin + b.Indent
	pdf.SetLeftMargin(left)
	pdf.SetX(left)
	defer pdf.SetLeftMargin(w.cfg.Margin)

	if b.Align != richdoc.AlignDefault && !b.Mono {
		var st Run
		if len(b.Runs) == 1 {
			st = b.Runs[0]
		}
		pdf.SetFont(w.family, fontStyle(b.Bold || st.Bold, st.Italic, st.Underline, st.Strike), size)
		w.setColor(st.Color)
		pdf.MultiCell(0, lh, w.tr(b.Text()), "", alignStr(b.Align), false)
	} else {
		for _, r := range b.Runs {
			family := w.family
			if b.Mono || r.Mono {
				family = "Courier"
			}
			pdf.SetFont(family, fontStyle(b.Bold || r.Bold, r.Italic, r.Underline, r.Strike), size)
			w.setColor(r.Color)
			if r.Link != "" {
				pdf.WriteLinkString(lh, w.tr(r.Text), r.Link)
			} else {
				pdf.Write(lh, w.tr(r.Text))
			}
		}
		pdf.Ln(lh)
	}
	pdf.Ln(b.MarginBottom)
}

func (w *pageWriter) list(g *ListGroup) {
	pdf := w.pdf
	lh := w.cfg.FontSize * w.cfg.LineHeight
	left := w.cfg.Margin + g.Indent
	pdf.SetLeftMargin(left)
	defer pdf.SetLeftMargin(w.cfg.Margin)
	pdf.SetFont(w.family, "", w.cfg.FontSize)
	w.setColor("")
	for _, line := range g.Lines {
		pdf.SetX(left)
		pdf.MultiCell(0, lh, w.tr(line), "", "L", false)
	}
	pdf.Ln(g.MarginBottom)
}

// image places a data-URI image centered, scaled down to the content box
// and moved to a new page when it does not fit. Other sources become an
// "[image: alt]" line.
func (w *pageWriter) image(b *ImageBlock) {
	pdf := w.pdf
	mime, data, ok := DecodeDataURI(b.Src)
	typ := imageType(mime)
	if !ok || typ == "" {
		w.placeholder(b, "unsupported source")
		return
	}
	name := "img" + strconv.Itoa(w.images)
	w.images++
	opts := gofpdf.ImageOptions{ImageType: typ}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() || info == nil || info.Width() <= 0 {
		pdf.ClearError()
		w.placeholder(b, "undecodable image")
		return
	}

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*w.cfg.Margin
	contentH := pageH - 2*w.cfg.Margin
	width, height := b.Width, b.Height
	if width <= 0 {
		width = richdoc.DefaultImageWidth
	}
	if height <= 0 {
		height = width * info.Height() / info.Width()
	}
	if width > contentW {
		height *= contentW / width
		width = contentW
	}
	if height > contentH {
		width *= contentH / height
		height = contentH
	}

	y := pdf.GetY() + imageMargin
	if y+height > pageH-w.cfg.Margin {
		pdf.AddPage()
		y = pdf.GetY()
	}
	x := w.cfg.Margin
	if b.Centered {
		x += (contentW - width) / 2
	}
	pdf.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	pdf.SetY(y + height + imageMargin)
}

func (w *pageWriter) placeholder(b *ImageBlock, reason string) {
	w.cfg.Logger.Debug("pdfexport: image placeholder", "alt", b.Alt, "reason", reason)
	label := "[image]"
	if b.Alt != "" {
		label = "[image: " + b.Alt + "]"
	}
	w.text(&TextBlock{
		Runs:         []Run{{Text: label, Italic: true, Color: "#808080"}},
		MarginBottom: paragraphMargin,
		Align:        richdoc.AlignCenter,
	})
}

func imageType(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(src string) (mime string, data []byte, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(src), "data:")
	if !found {
		return "", nil, false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	mime = strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return "", nil, false
		}
	}
	return mime, data, true
}
